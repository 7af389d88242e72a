package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/repository"
)

// ErrInvalidInput marks caller mistakes; the API maps it to 400.
var ErrInvalidInput = errors.New("invalid input")

// txRepos are repositories bound to one transaction.
type txRepos struct {
	projects *repository.SQLiteProjectRepo
	tasks    *repository.SQLiteTaskRepo
	daily    *repository.SQLiteDailyWorkRepo
	monthly  *repository.SQLiteMonthlyPlanRepo
}

func reposFor(tx db.DBTX) txRepos {
	return txRepos{
		projects: repository.NewSQLiteProjectRepo(tx),
		tasks:    repository.NewSQLiteTaskRepo(tx),
		daily:    repository.NewSQLiteDailyWorkRepo(tx),
		monthly:  repository.NewSQLiteMonthlyPlanRepo(tx),
	}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func formatValidationErrors(errs []error) error {
	if len(errs) == 1 {
		return fmt.Errorf("%w: %v", ErrInvalidInput, errs[0])
	}
	msg := fmt.Sprintf("validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
