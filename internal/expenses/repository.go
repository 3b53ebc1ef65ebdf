package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/platform/db"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Repository persists expenses.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Expense, int, error)
	Get(ctx context.Context, id int64) (Expense, error)
	Create(ctx context.Context, input CreateInput) (Expense, error)
	Update(ctx context.Context, id int64, input UpdateInput) (Expense, error)
	Delete(ctx context.Context, id int64) error
	Recent(ctx context.Context, month *shared.MonthRange, limit int) ([]Expense, error)
	Sum(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error)
}

type repository struct {
	db db.Querier
}

// NewRepository builds a pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const expenseColumns = `id, category, amount, description, date, created_at, updated_at`

// dateFilterSQL matches the business date against optional month bounds.
const dateFilterSQL = `($1::date IS NULL OR date >= $1::date) AND ($2::date IS NULL OR date < $2::date)`

func scanExpense(row pgx.Row) (Expense, error) {
	var (
		e        Expense
		category int16
	)
	if err := row.Scan(&e.ID, &category, &e.Amount, &e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Expense{}, err
	}
	e.Category = Category(category)
	return e, nil
}

func collectExpenses(rows pgx.Rows) ([]Expense, error) {
	defer rows.Close()
	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func notFound(id int64) error {
	return fmt.Errorf("expense %d: %w", id, shared.ErrNotFound)
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Expense, int, error) {
	start, end := filter.Month.Bounds()
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM expenses WHERE `+dateFilterSQL, start, end).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("expenses: count: %w", err)
	}
	rows, err := r.db.Query(ctx, `SELECT `+expenseColumns+` FROM expenses
WHERE `+dateFilterSQL+`
ORDER BY date DESC, id DESC
LIMIT $3 OFFSET $4`, start, end, filter.Page.PerPage, filter.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("expenses: list: %w", err)
	}
	items, err := collectExpenses(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("expenses: scan: %w", err)
	}
	return items, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Expense, error) {
	e, err := scanExpense(r.db.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return Expense{}, notFound(id)
		}
		return Expense{}, fmt.Errorf("expenses: get: %w", err)
	}
	return e, nil
}

func (r *repository) Create(ctx context.Context, input CreateInput) (Expense, error) {
	e, err := scanExpense(r.db.QueryRow(ctx, `INSERT INTO expenses (category, amount, description, date)
VALUES ($1, $2, NULLIF($3, ''), $4::date)
RETURNING `+expenseColumns, int16(input.Category), input.Amount, input.Description, input.Date))
	if err != nil {
		return Expense{}, fmt.Errorf("expenses: create: %w", db.MapWriteError(err))
	}
	return e, nil
}

func (r *repository) Update(ctx context.Context, id int64, input UpdateInput) (Expense, error) {
	var category *int16
	if input.Category != nil {
		c := int16(*input.Category)
		category = &c
	}
	e, err := scanExpense(r.db.QueryRow(ctx, `UPDATE expenses SET
    category = COALESCE($2, category),
    amount = COALESCE($3, amount),
    description = CASE WHEN $4::boolean THEN NULLIF($5, '') ELSE description END,
    date = COALESCE($6::date, date),
    updated_at = $7
WHERE id = $1
RETURNING `+expenseColumns,
		id, category, input.Amount, input.Description != nil, input.Description, input.Date, time.Now().UTC()))
	if err != nil {
		if db.IsNoRows(err) {
			return Expense{}, notFound(id)
		}
		return Expense{}, fmt.Errorf("expenses: update: %w", db.MapWriteError(err))
	}
	return e, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("expenses: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

// Recent filters on the business date and orders by creation time.
func (r *repository) Recent(ctx context.Context, month *shared.MonthRange, limit int) ([]Expense, error) {
	start, end := month.Bounds()
	rows, err := r.db.Query(ctx, `SELECT `+expenseColumns+` FROM expenses
WHERE `+dateFilterSQL+`
ORDER BY created_at DESC, id DESC
LIMIT $3`, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("expenses: recent: %w", err)
	}
	items, err := collectExpenses(rows)
	if err != nil {
		return nil, fmt.Errorf("expenses: scan recent: %w", err)
	}
	return items, nil
}

// Sum totals amounts by creation time, the basis of every dashboard sum.
func (r *repository) Sum(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	start, end := month.Bounds()
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses
WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at < $2)`, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expenses: sum: %w", err)
	}
	return total, nil
}
