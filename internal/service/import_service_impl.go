package service

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/importer"
	"github.com/alexanderramin/sitebook/internal/ordering"
)

type importService struct {
	writer   *db.ProjectWriter
	notifier Notifier
	observer UseCaseObserver
}

// NewImportService builds the schedule import. An import replaces the whole
// schedule of the project in one transaction.
func NewImportService(writer *db.ProjectWriter, notifier Notifier, observers ...UseCaseObserver) ImportService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &importService{writer: writer, notifier: notifier, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportFile(ctx context.Context, projectID, path string) (*contract.ImportResult, error) {
	file, err := importer.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: loading import file: %v", ErrInvalidInput, err)
	}
	return s.ImportSchedule(ctx, projectID, file)
}

func (s *importService) ImportReader(ctx context.Context, projectID string, r io.Reader, format importer.Format) (*contract.ImportResult, error) {
	file, err := importer.Decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.ImportSchedule(ctx, projectID, file)
}

func (s *importService) ImportSchedule(ctx context.Context, projectID string, file *importer.ScheduleFile) (result *contract.ImportResult, err error) {
	ctx, done := useCase(ctx, s.observer, "import-schedule", map[string]any{"project_id": projectID, "rows": len(file.Tasks)})
	defer func() { done(err) }()

	if len(file.Tasks) == 0 {
		return nil, invalidf("import file has no task rows")
	}

	converted, err := importer.Convert(file, projectID, nowUTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(converted.Tasks) == 0 {
		// Replacing the schedule with nothing is never what a caller meant.
		return nil, rejectedImportError(converted.Skipped)
	}

	result = &contract.ImportResult{
		Processed: len(converted.Tasks),
		Skipped:   converted.Skipped,
	}
	if result.Skipped == nil {
		result.Skipped = []ordering.RowError{}
	}

	err = s.writer.WithinProjectTx(ctx, projectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		if _, err := r.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		wipe, err := r.tasks.DeleteByProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("clearing schedule: %w", err)
		}
		result.Replaced = wipe.Deleted
		result.DroppedCustom = wipe.Custom

		for _, t := range converted.Tasks {
			if err := r.tasks.Create(ctx, t); err != nil {
				return fmt.Errorf("importing task %q: %w", t.Code, err)
			}
		}
		return r.projects.Touch(ctx, projectID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, contract.Change{
		Type:      contract.ScheduleImported,
		Topic:     contract.TopicTasks,
		ProjectID: projectID,
		Data:      result,
	})
	return result, nil
}

func rejectedImportError(skipped []ordering.RowError) error {
	errs := make([]error, len(skipped))
	for i, e := range skipped {
		errs[i] = e
	}
	return fmt.Errorf("no importable rows: %w", formatValidationErrors(errs))
}
