// Package dashboard aggregates clients, ledger, inventory, expenses and
// profits into the dashboard widgets. It owns no tables.
package dashboard

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/dokon-erp/dokon/internal/expenses"
	"github.com/dokon-erp/dokon/internal/inventory"
	"github.com/dokon-erp/dokon/internal/ledger"
	"github.com/dokon-erp/dokon/internal/shared"
)

// ClientCounter counts clients.
type ClientCounter interface {
	Count(ctx context.Context) (int, error)
}

// LedgerReader sums and lists one ledger table.
type LedgerReader interface {
	Sum(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error)
	Recent(ctx context.Context, month *shared.MonthRange, limit int) ([]ledger.Entry, error)
}

// ProductReader exposes product counts and the low-stock list.
type ProductReader interface {
	Count(ctx context.Context) (int, error)
	CountLowStock(ctx context.Context) (int, error)
	LessProducts(ctx context.Context) ([]inventory.Product, error)
}

// ExpenseReader sums and lists expenses.
type ExpenseReader interface {
	Sum(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error)
	Recent(ctx context.Context, month *shared.MonthRange, limit int) ([]expenses.Expense, error)
}

// RevenueReader sums recorded monthly revenue.
type RevenueReader interface {
	SumRevenue(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error)
}

// Sources bundles the readers the dashboard composes.
type Sources struct {
	Clients  ClientCounter
	Debts    LedgerReader
	Payments LedgerReader
	Products ProductReader
	Expenses ExpenseReader
	Profits  RevenueReader
}

// Statistic is the headline figure set.
type Statistic struct {
	CountClient   int             `json:"count_client"`
	TotalDebt     decimal.Decimal `json:"total_debt"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	LessProduct   int             `json:"less_product"`
	CountProducts int             `json:"count_products"`
	AllBenefit    decimal.Decimal `json:"all_benefit"`
}

// Sums are the per-month money totals a Statistic is derived from.
type Sums struct {
	Debts    decimal.Decimal
	Payments decimal.Decimal
	Revenue  decimal.Decimal
	Expenses decimal.Decimal
}

// TotalDebt is debts minus payments.
func (s Sums) TotalDebt() decimal.Decimal {
	return s.Debts.Sub(s.Payments)
}

// TotalRevenue is recorded revenue minus expenses plus outstanding debt.
// Outstanding debt is counted as revenue here; AllBenefit subtracts it.
func (s Sums) TotalRevenue() decimal.Decimal {
	return s.Revenue.Sub(s.Expenses).Add(s.TotalDebt())
}

// AllBenefit is recorded revenue minus expenses minus outstanding debt.
func (s Sums) AllBenefit() decimal.Decimal {
	return s.Revenue.Sub(s.Expenses).Sub(s.TotalDebt())
}

// Service computes dashboard widgets.
type Service struct {
	src    Sources
	logger *slog.Logger
}

// NewService builds Service.
func NewService(src Sources, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{src: src, logger: logger}
}

// Statistic loads every figure concurrently and combines them.
func (s *Service) Statistic(ctx context.Context, month *shared.MonthRange) (Statistic, error) {
	var (
		stat Statistic
		sums Sums
	)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stat.CountClient, err = s.src.Clients.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stat.CountProducts, err = s.src.Products.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stat.LessProduct, err = s.src.Products.CountLowStock(ctx)
		return err
	})
	g.Go(func() (err error) {
		sums.Debts, err = s.src.Debts.Sum(ctx, month)
		return err
	})
	g.Go(func() (err error) {
		sums.Payments, err = s.src.Payments.Sum(ctx, month)
		return err
	})
	g.Go(func() (err error) {
		sums.Revenue, err = s.src.Profits.SumRevenue(ctx, month)
		return err
	})
	g.Go(func() (err error) {
		sums.Expenses, err = s.src.Expenses.Sum(ctx, month)
		return err
	})

	if err := g.Wait(); err != nil {
		return Statistic{}, err
	}

	stat.TotalDebt = sums.TotalDebt()
	stat.TotalRevenue = sums.TotalRevenue()
	stat.TotalExpense = sums.Expenses
	stat.AllBenefit = sums.AllBenefit()
	s.logger.Debug("dashboard statistic computed", slog.String("month", month.Key()))
	return stat, nil
}

// LessProducts lists products at or below their minimum quantity.
func (s *Service) LessProducts(ctx context.Context) ([]inventory.Product, error) {
	return s.src.Products.LessProducts(ctx)
}

// RecentPayments lists the latest payments with client names.
func (s *Service) RecentPayments(ctx context.Context, month *shared.MonthRange, limit int) ([]ledger.Entry, error) {
	if limit <= 0 {
		limit = ledger.RecentLimit
	}
	items, err := s.src.Payments.Recent(ctx, month, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ledger.Entry{}
	}
	return items, nil
}

// RecentExpenses lists the latest expenses.
func (s *Service) RecentExpenses(ctx context.Context, month *shared.MonthRange, limit int) ([]expenses.Expense, error) {
	if limit <= 0 {
		limit = expenses.RecentLimit
	}
	return s.src.Expenses.Recent(ctx, month, limit)
}
