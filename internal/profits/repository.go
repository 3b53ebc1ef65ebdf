package profits

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/platform/db"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Repository persists monthly profit rows.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]MonthlyProfit, int, error)
	Get(ctx context.Context, id int64) (MonthlyProfit, error)
	Create(ctx context.Context, f Figures) (MonthlyProfit, error)
	Update(ctx context.Context, id int64, f Figures) (MonthlyProfit, error)
	Delete(ctx context.Context, id int64) error
	SumRevenue(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error)
}

type repository struct {
	db db.Querier
}

// NewRepository builds a pgx backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const profitColumns = `id, month, total_revenue, total_expenses, total_debts_added, debt_payments,
product_profit, net_profit, created_at, updated_at`

func scanProfit(row pgx.Row) (MonthlyProfit, error) {
	var (
		p     MonthlyProfit
		month int16
	)
	err := row.Scan(&p.ID, &month, &p.TotalRevenue, &p.TotalExpenses, &p.TotalDebtsAdded, &p.DebtPayments,
		&p.ProductProfit, &p.NetProfit, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return MonthlyProfit{}, err
	}
	p.Month = int(month)
	return p, nil
}

func notFound(id int64) error {
	return fmt.Errorf("monthly profit %d: %w", id, shared.ErrNotFound)
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]MonthlyProfit, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM monthly_profits
WHERE ($1::smallint IS NULL OR month = $1)`, filter.Month).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("profits: count: %w", err)
	}
	rows, err := r.db.Query(ctx, `SELECT `+profitColumns+`
FROM monthly_profits
WHERE ($1::smallint IS NULL OR month = $1)
ORDER BY month DESC, id DESC
LIMIT $2 OFFSET $3`, filter.Month, filter.Page.PerPage, filter.Page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("profits: list: %w", err)
	}
	defer rows.Close()
	var out []MonthlyProfit
	for rows.Next() {
		p, err := scanProfit(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("profits: scan: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (MonthlyProfit, error) {
	p, err := scanProfit(r.db.QueryRow(ctx, `SELECT `+profitColumns+` FROM monthly_profits WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return MonthlyProfit{}, notFound(id)
		}
		return MonthlyProfit{}, fmt.Errorf("profits: get: %w", err)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, f Figures) (MonthlyProfit, error) {
	p, err := scanProfit(r.db.QueryRow(ctx, `INSERT INTO monthly_profits
(month, total_revenue, total_expenses, total_debts_added, debt_payments, product_profit, net_profit)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+profitColumns,
		f.Month, f.TotalRevenue, f.TotalExpenses, f.TotalDebtsAdded, f.DebtPayments, f.ProductProfit, f.NetProfit))
	if err != nil {
		return MonthlyProfit{}, fmt.Errorf("profits: insert: %w", db.MapWriteError(err))
	}
	return p, nil
}

func (r *repository) Update(ctx context.Context, id int64, f Figures) (MonthlyProfit, error) {
	p, err := scanProfit(r.db.QueryRow(ctx, `UPDATE monthly_profits SET
month = $2, total_revenue = $3, total_expenses = $4, total_debts_added = $5,
debt_payments = $6, product_profit = $7, net_profit = $8, updated_at = NOW()
WHERE id = $1
RETURNING `+profitColumns,
		id, f.Month, f.TotalRevenue, f.TotalExpenses, f.TotalDebtsAdded, f.DebtPayments, f.ProductProfit, f.NetProfit))
	if err != nil {
		if db.IsNoRows(err) {
			return MonthlyProfit{}, notFound(id)
		}
		return MonthlyProfit{}, fmt.Errorf("profits: update: %w", db.MapWriteError(err))
	}
	return p, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM monthly_profits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("profits: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

// SumRevenue totals total_revenue over rows created in the month.
func (r *repository) SumRevenue(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	start, end := month.Bounds()
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_revenue), 0) FROM monthly_profits
WHERE ($1::timestamptz IS NULL OR created_at >= $1)
  AND ($2::timestamptz IS NULL OR created_at < $2)`, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("profits: sum revenue: %w", err)
	}
	return total, nil
}
