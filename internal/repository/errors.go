package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"todo/internal/model"
)

// Common repository errors
var (
	// ErrTaskNotFound is returned when no task has the requested id
	ErrTaskNotFound = errors.New("task not found")
)

// Postgres SQLSTATE codes that describe bad field values.
const (
	pgNotNullViolation  = "23502"
	pgCheckViolation    = "23514"
	pgStringDataTooLong = "22001"
)

// translateError turns constraint violations reported by postgres into
// validation errors. Everything else is returned unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	field := pgErr.ColumnName
	switch pgErr.Code {
	case pgCheckViolation:
		if field == "" {
			field = constraintField(pgErr.ConstraintName)
		}
		return model.NewValidationError(field, "Value is not a valid choice.")
	case pgNotNullViolation:
		return model.NewValidationError(field, "This field may not be null.")
	case pgStringDataTooLong:
		if field == "" {
			field = "title"
		}
		return model.NewValidationError(field, "Ensure this field has no more than 255 characters.")
	}
	return err
}

// constraintField extracts the column from constraint names shaped like
// "tasks_<column>_check".
func constraintField(name string) string {
	if strings.HasPrefix(name, "tasks_") && strings.HasSuffix(name, "_check") {
		if f := strings.TrimSuffix(strings.TrimPrefix(name, "tasks_"), "_check"); f != "" {
			return f
		}
	}
	return "non_field_errors"
}

// wrap keeps validation errors as they are and adds context to the rest.
func wrap(op string, err error) error {
	err = translateError(err)
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
