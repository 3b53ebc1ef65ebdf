package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dokon-erp/dokon/internal/platform/db"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Repository persists clients and reads their ledger aggregates.
type Repository interface {
	List(ctx context.Context, page shared.PageRequest) ([]Client, int, error)
	ListWithStats(ctx context.Context, filter ListFilter) ([]ClientWithStats, int, error)
	Get(ctx context.Context, id int64) (Client, error)
	Create(ctx context.Context, input CreateInput) (Client, error)
	Update(ctx context.Context, id int64, input UpdateInput) (Client, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Totals(ctx context.Context, clientID *int64, month *shared.MonthRange) (Totals, error)
	History(ctx context.Context, clientID int64, month *shared.MonthRange) ([]HistoryEntry, error)
}

type repository struct {
	db db.Querier
}

// NewRepository builds a pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const clientColumns = `c.id, c.name, c.telephone, c.telegram, c.created_at, c.updated_at`

func scanClient(row pgx.Row, extra ...any) (Client, error) {
	var c Client
	dest := append([]any{&c.ID, &c.Name, &c.Telephone, &c.Telegram, &c.CreatedAt, &c.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, page shared.PageRequest) ([]Client, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+`
FROM clients c
ORDER BY c.created_at DESC, c.id DESC
LIMIT $1 OFFSET $2`, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("clients: list: %w", err)
	}
	defer rows.Close()
	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("clients: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// listWithStatsSQL sums each client's ledger rows with optional month bounds
// ($1, $2 may be NULL).
const listWithStatsSQL = `SELECT ` + clientColumns + `,
       COALESCE(d.total, 0) AS total_debt,
       COALESCE(p.total, 0) AS paid_amount,
       p.last_at
FROM clients c
LEFT JOIN LATERAL (
    SELECT SUM(amount) AS total
    FROM debt_records
    WHERE client_id = c.id
      AND ($1::timestamptz IS NULL OR created_at >= $1)
      AND ($2::timestamptz IS NULL OR created_at < $2)
) d ON TRUE
LEFT JOIN LATERAL (
    SELECT SUM(amount) AS total, MAX(created_at) AS last_at
    FROM payments
    WHERE client_id = c.id
      AND ($1::timestamptz IS NULL OR created_at >= $1)
      AND ($2::timestamptz IS NULL OR created_at < $2)
) p ON TRUE
ORDER BY c.created_at DESC, c.id DESC
LIMIT $3 OFFSET $4`

func (r *repository) ListWithStats(ctx context.Context, filter ListFilter) ([]ClientWithStats, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	start, end := filter.Month.Bounds()
	rows, err := r.db.Query(ctx, listWithStatsSQL, start, end, filter.Page.PerPage, filter.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("clients: list with stats: %w", err)
	}
	defer rows.Close()
	var out []ClientWithStats
	for rows.Next() {
		var item ClientWithStats
		c, err := scanClient(rows, &item.TotalDebt, &item.PaidAmount, &item.LastPaymentAt)
		if err != nil {
			return nil, 0, fmt.Errorf("clients: scan stats: %w", err)
		}
		item.Client = c
		item.RemainingDebt = item.TotalDebt.Sub(item.PaidAmount)
		out = append(out, item)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients c WHERE c.id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return Client{}, fmt.Errorf("client %d: %w", id, shared.ErrNotFound)
		}
		return Client{}, fmt.Errorf("clients: get: %w", err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, input CreateInput) (Client, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO clients AS c (name, telephone, telegram)
VALUES ($1, $2, NULLIF($3, ''))
RETURNING `+clientColumns, input.Name, input.Telephone, input.Telegram)
	c, err := scanClient(row)
	if err != nil {
		return Client{}, fmt.Errorf("clients: create: %w", db.MapWriteError(err))
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, input UpdateInput) (Client, error) {
	row := r.db.QueryRow(ctx, `UPDATE clients AS c SET
    name = COALESCE($2, c.name),
    telephone = COALESCE($3, c.telephone),
    telegram = CASE WHEN $4::boolean THEN NULLIF($5, '') ELSE c.telegram END,
    updated_at = $6
WHERE c.id = $1
RETURNING `+clientColumns, id, input.Name, input.Telephone, input.Telegram != nil, input.Telegram, time.Now().UTC())
	c, err := scanClient(row)
	if err != nil {
		if db.IsNoRows(err) {
			return Client{}, fmt.Errorf("client %d: %w", id, shared.ErrNotFound)
		}
		return Client{}, fmt.Errorf("clients: update: %w", db.MapWriteError(err))
	}
	return c, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clients: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("client %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&total); err != nil {
		return 0, fmt.Errorf("clients: count: %w", err)
	}
	return total, nil
}

func (r *repository) Totals(ctx context.Context, clientID *int64, month *shared.MonthRange) (Totals, error) {
	start, end := month.Bounds()
	var t Totals
	err := r.db.QueryRow(ctx, `SELECT
    (SELECT COALESCE(SUM(amount), 0) FROM debt_records
      WHERE ($1::bigint IS NULL OR client_id = $1)
        AND ($2::timestamptz IS NULL OR created_at >= $2)
        AND ($3::timestamptz IS NULL OR created_at < $3)),
    (SELECT COALESCE(SUM(amount), 0) FROM payments
      WHERE ($1::bigint IS NULL OR client_id = $1)
        AND ($2::timestamptz IS NULL OR created_at >= $2)
        AND ($3::timestamptz IS NULL OR created_at < $3))`,
		clientID, start, end).Scan(&t.TotalDebts, &t.TotalPayments)
	if err != nil {
		return Totals{}, fmt.Errorf("clients: totals: %w", err)
	}
	return NewTotals(t.TotalDebts, t.TotalPayments), nil
}

func (r *repository) History(ctx context.Context, clientID int64, month *shared.MonthRange) ([]HistoryEntry, error) {
	start, end := month.Bounds()
	rows, err := r.db.Query(ctx, `SELECT id, 'debt' AS type, amount, description, created_at
FROM debt_records
WHERE client_id = $1
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at < $3)
UNION ALL
SELECT id, 'payment' AS type, amount, description, created_at
FROM payments
WHERE client_id = $1
  AND ($2::timestamptz IS NULL OR created_at >= $2)
  AND ($3::timestamptz IS NULL OR created_at < $3)
ORDER BY created_at DESC, id DESC`, clientID, start, end)
	if err != nil {
		return nil, fmt.Errorf("clients: history: %w", err)
	}
	defer rows.Close()
	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Type, &e.Amount, &e.Description, &e.Date); err != nil {
			return nil, fmt.Errorf("clients: scan history: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
