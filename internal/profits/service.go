package profits

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/shared"
)

// Service coordinates monthly profit operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService builds Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns rows, latest month first.
func (s *Service) List(ctx context.Context, filter ListFilter) (shared.Page[MonthlyProfit], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return shared.Page[MonthlyProfit]{}, err
	}
	return shared.NewPage(items, filter.Page, total), nil
}

// Get loads one row.
func (s *Service) Get(ctx context.Context, id int64) (MonthlyProfit, error) {
	return s.repo.Get(ctx, id)
}

// Create stores a row, deriving net profit when it is not supplied.
func (s *Service) Create(ctx context.Context, input CreateInput) (MonthlyProfit, error) {
	if !ValidMonth(input.Month) {
		return MonthlyProfit{}, invalidMonth()
	}
	f := Figures{
		Month:           input.Month,
		TotalRevenue:    input.TotalRevenue,
		TotalExpenses:   input.TotalExpenses,
		TotalDebtsAdded: input.TotalDebtsAdded,
		DebtPayments:    input.DebtPayments,
		ProductProfit:   input.ProductProfit,
	}
	if input.NetProfit != nil {
		f.NetProfit = *input.NetProfit
	} else {
		f.NetProfit = NetProfitOf(f)
	}
	if err := f.check(); err != nil {
		return MonthlyProfit{}, err
	}
	p, err := s.repo.Create(ctx, f)
	if err != nil {
		return MonthlyProfit{}, err
	}
	s.logger.Info("monthly profit created", slog.Int64("profit_id", p.ID), slog.Int("month", p.Month))
	return p, nil
}

// Update merges input into the stored row.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (MonthlyProfit, error) {
	if input.Month != nil && !ValidMonth(*input.Month) {
		return MonthlyProfit{}, invalidMonth()
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return MonthlyProfit{}, err
	}
	f := current.Figures()
	if input.Month != nil {
		f.Month = *input.Month
	}
	setDecimal(&f.TotalRevenue, input.TotalRevenue)
	setDecimal(&f.TotalExpenses, input.TotalExpenses)
	setDecimal(&f.TotalDebtsAdded, input.TotalDebtsAdded)
	setDecimal(&f.DebtPayments, input.DebtPayments)
	if input.ProductProfit != nil {
		f.ProductProfit = *input.ProductProfit
	}
	switch {
	case input.NetProfit != nil:
		f.NetProfit = *input.NetProfit
	case input.touchesFigures():
		f.NetProfit = NetProfitOf(f)
	}
	if err := f.check(); err != nil {
		return MonthlyProfit{}, err
	}
	return s.repo.Update(ctx, id, f)
}

// Delete removes a row.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("monthly profit deleted", slog.Int64("profit_id", id))
	return nil
}

// SumRevenue totals revenue of rows created in the month.
func (s *Service) SumRevenue(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	return s.repo.SumRevenue(ctx, month)
}

func setDecimal(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}
