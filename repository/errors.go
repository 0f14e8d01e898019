package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("repository: record not found")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("repository: duplicate record")

	// ErrInvalidFilter is returned for an unknown list filter.
	ErrInvalidFilter = errors.New("repository: invalid filter")

	// ErrBuildQuery is returned when a predicate cannot be rendered.
	ErrBuildQuery = errors.New("repository: failed to build query")

	// ErrExecQuery is returned when the database rejects a query.
	ErrExecQuery = errors.New("repository: failed to execute query")
)

// wrap maps gorm errors onto the package sentinels.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s: %v", ErrDuplicate, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
	}
}
