package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dokon-erp/dokon/internal/shared"
)

const (
	numericValueOutOfRange = "22003"
	checkViolation         = "23514"
)

// IsNoRows reports whether err is pgx.ErrNoRows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// MapWriteError turns value errors raised by the database on insert or
// update into a *shared.ValidationError. Other errors are returned as is.
func MapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case checkViolation:
		field := constraintField(pgErr)
		return shared.NewValidationError(field, "The "+strings.ReplaceAll(field, "_", " ")+" field is out of range.")
	case numericValueOutOfRange:
		field := pgErr.ColumnName
		if field == "" {
			field = "value"
		}
		return shared.NewValidationError(field, "The "+strings.ReplaceAll(field, "_", " ")+" field is out of range.")
	}
	return err
}

// constraintField recovers the column from Postgres' default
// <table>_<column>_check constraint name.
func constraintField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	name := strings.TrimSuffix(pgErr.ConstraintName, "_check")
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	}
	if name == "" {
		return "value"
	}
	return name
}
