package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey reports a write referencing a missing row.
	ErrForeignKey = errors.New("referenced record does not exist")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// ConstraintError carries the violated constraint name.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Kind, e.Constraint)
}

func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// translate maps postgres constraint violations onto ErrDuplicate and ErrForeignKey.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch string(pqErr.Code) {
	case pqUniqueViolation:
		return &ConstraintError{Kind: ErrDuplicate, Constraint: pqErr.Constraint, Err: err}
	case pqForeignKeyViolation:
		return &ConstraintError{Kind: ErrForeignKey, Constraint: pqErr.Constraint, Err: err}
	}
	return err
}

// ConstraintName returns the violated constraint of err, if any.
func ConstraintName(err error) string {
	var cErr *ConstraintError
	if errors.As(err, &cErr) {
		return cErr.Constraint
	}
	return ""
}
