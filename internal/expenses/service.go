package expenses

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/shared"
)

// Service coordinates expense operations.
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

// List returns expenses whose business date falls in the month, latest date first.
func (s *Service) List(ctx context.Context, filter ListFilter) (shared.Page[Expense], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return shared.Page[Expense]{}, err
	}
	return shared.NewPage(items, filter.Page, total), nil
}

// Get loads one expense.
func (s *Service) Get(ctx context.Context, id int64) (Expense, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores an expense.
func (s *Service) Create(ctx context.Context, input CreateInput) (Expense, error) {
	input.Description = trimOptional(input.Description)
	verr := &shared.ValidationError{}
	if !input.Category.Valid() {
		verr.Add("category", "The selected category is invalid.")
	}
	if input.Amount.IsNegative() {
		verr.Add("amount", "The amount field must be at least 0.")
	}
	shared.CheckAmount(verr, "amount", input.Amount)
	if input.Date.IsZero() {
		verr.Add("date", "The date field is required.")
	}
	if err := verr.OrNil(); err != nil {
		return Expense{}, err
	}
	e, err := s.repo.Create(ctx, input)
	if err != nil {
		return Expense{}, err
	}
	s.logger.Info("expense created", slog.Int64("expense_id", e.ID), slog.String("amount", e.Amount.String()))
	return e, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (Expense, error) {
	input.Description = trimOptional(input.Description)
	verr := &shared.ValidationError{}
	if input.Category != nil && !input.Category.Valid() {
		verr.Add("category", "The selected category is invalid.")
	}
	if input.Amount != nil {
		if input.Amount.IsNegative() {
			verr.Add("amount", "The amount field must be at least 0.")
		}
		shared.CheckAmount(verr, "amount", *input.Amount)
	}
	if input.Date != nil && input.Date.IsZero() {
		verr.Add("date", "The date field must be a valid date.")
	}
	if err := verr.OrNil(); err != nil {
		return Expense{}, err
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("expense deleted", slog.Int64("expense_id", id))
	return nil
}

// Recent returns the most recently created expenses dated in the month.
func (s *Service) Recent(ctx context.Context, month *shared.MonthRange, limit int) ([]Expense, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	items, err := s.repo.Recent(ctx, month, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Expense{}
	}
	return items, nil
}

// Sum totals expenses created in the month.
func (s *Service) Sum(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	return s.repo.Sum(ctx, month)
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
