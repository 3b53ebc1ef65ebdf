package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/platform/db"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Repository persists one ledger table.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filter ListFilter) ([]Entry, int, error)
	Recent(ctx context.Context, month *shared.MonthRange, limit int) ([]Entry, error)
	Delete(ctx context.Context, id int64) error
	Sum(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error)
}

// TxRepository exposes the statements run inside the create transaction.
type TxRepository interface {
	// LockClient returns the client's name and holds a share lock on the row
	// until commit so the client cannot be deleted mid-insert.
	LockClient(ctx context.Context, clientID int64) (string, error)
	Insert(ctx context.Context, input CreateInput) (Entry, error)
}

type repository struct {
	kind Kind
	db   db.Querier
	pool *pgxpool.Pool
}

// NewRepository builds a pgx backed Repository for kind.
func NewRepository(pool *pgxpool.Pool, kind Kind) Repository {
	return &repository{kind: kind, db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{kind: r.kind, db: tx, pool: r.pool})
	})
}

func (r *repository) selectSQL() string {
	return `SELECT l.id, l.client_id, COALESCE(c.name, '` + UnknownClientName + `'), l.amount, l.description, l.created_at, l.updated_at
FROM ` + r.kind.Table() + ` l
LEFT JOIN clients c ON c.id = l.client_id`
}

const filterSQL = `
WHERE ($1::bigint IS NULL OR l.client_id = $1)
  AND ($2::timestamptz IS NULL OR l.created_at >= $2)
  AND ($3::timestamptz IS NULL OR l.created_at < $3)`

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ClientID, &e.ClientName, &e.Amount, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Entry, int, error) {
	start, end := filter.Month.Bounds()
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM `+r.kind.Table()+` l`+filterSQL, filter.ClientID, start, end).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ledger: count %s: %w", r.kind, err)
	}
	rows, err := r.db.Query(ctx, r.selectSQL()+filterSQL+`
ORDER BY l.created_at DESC, l.id DESC
LIMIT $4 OFFSET $5`, filter.ClientID, start, end, filter.Page.PerPage, filter.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("ledger: list %s: %w", r.kind, err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger: scan %s: %w", r.kind, err)
	}
	return entries, total, nil
}

func (r *repository) Recent(ctx context.Context, month *shared.MonthRange, limit int) ([]Entry, error) {
	start, end := month.Bounds()
	rows, err := r.db.Query(ctx, r.selectSQL()+filterSQL+`
ORDER BY l.created_at DESC, l.id DESC
LIMIT $4`, nil, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: recent %s: %w", r.kind, err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("ledger: scan %s: %w", r.kind, err)
	}
	return entries, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM `+r.kind.Table()+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ledger: delete %s: %w", r.kind, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", r.kind.Label(), id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Sum(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	start, end := month.Bounds()
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM `+r.kind.Table()+`
WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at < $2)`, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ledger: sum %s: %w", r.kind, err)
	}
	return total, nil
}

func (r *repository) LockClient(ctx context.Context, clientID int64) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT name FROM clients WHERE id = $1 FOR SHARE`, clientID).Scan(&name)
	if err != nil {
		if db.IsNoRows(err) {
			return "", fmt.Errorf("client %d: %w", clientID, shared.ErrNotFound)
		}
		return "", fmt.Errorf("ledger: lock client: %w", err)
	}
	return name, nil
}

func (r *repository) Insert(ctx context.Context, input CreateInput) (Entry, error) {
	e := Entry{ClientID: input.ClientID}
	err := r.db.QueryRow(ctx, `INSERT INTO `+r.kind.Table()+` (client_id, amount, description)
VALUES ($1, $2, NULLIF($3, ''))
RETURNING id, amount, description, created_at, updated_at`, input.ClientID, input.Amount, input.Description).
		Scan(&e.ID, &e.Amount, &e.Description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("ledger: insert %s: %w", r.kind, db.MapWriteError(err))
	}
	return e, nil
}
