package repository

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateCode is returned when a task code is already used in the project.
	ErrDuplicateCode = errors.New("duplicate task code")
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
