package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokon-erp/dokon/internal/shared"
)

func TestMapWriteErrorCheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", TableName: "products", ConstraintName: "products_stock_quantity_check"}
	err := MapWriteError(fmt.Errorf("inventory: update product: %w", pgErr))

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "stock_quantity")
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestMapWriteErrorNumericOutOfRange(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "22003", Message: "numeric field overflow"}
	err := MapWriteError(pgErr)

	var verr *shared.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "value")
}

func TestMapWriteErrorPassesOtherErrors(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	assert.Same(t, unique, MapWriteError(unique))
	assert.Equal(t, pgx.ErrNoRows, MapWriteError(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)))
}
