package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dokon-erp/dokon/internal/shared"
)

// Service appends to and reads one ledger.
type Service struct {
	kind   Kind
	repo   Repository
	logger *slog.Logger
}

// NewService builds Service.
func NewService(kind Kind, repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{kind: kind, repo: repo, logger: logger}
}

// Kind reports which ledger the service manages.
func (s *Service) Kind() Kind {
	return s.kind
}

// List returns a page of rows, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) (shared.Page[Entry], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return shared.Page[Entry]{}, err
	}
	return shared.NewPage(items, filter.Page, total), nil
}

// Recent returns the newest rows for the month, at most limit.
func (s *Service) Recent(ctx context.Context, month *shared.MonthRange, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	items, err := s.repo.Recent(ctx, month, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Entry{}
	}
	return items, nil
}

// Sum totals the amounts created in the month.
func (s *Service) Sum(ctx context.Context, month *shared.MonthRange) (decimal.Decimal, error) {
	return s.repo.Sum(ctx, month)
}

// Create appends a row for an existing client.
func (s *Service) Create(ctx context.Context, input CreateInput) (Entry, error) {
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		input.Description = &trimmed
	}
	verr := &shared.ValidationError{}
	if input.ClientID <= 0 {
		verr.Add("client_id", "The client id field is required.")
	}
	if !input.Amount.IsPositive() {
		verr.Add("amount", "The amount field must be greater than 0.")
	}
	shared.CheckAmount(verr, "amount", input.Amount)
	if err := verr.OrNil(); err != nil {
		return Entry{}, err
	}

	var entry Entry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		name, err := tx.LockClient(ctx, input.ClientID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewValidationError("client_id", "The selected client id is invalid.")
			}
			return err
		}
		entry, err = tx.Insert(ctx, input)
		if err != nil {
			return err
		}
		entry.ClientName = name
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	s.logger.Info(s.kind.Label()+" recorded",
		slog.Int64("id", entry.ID),
		slog.Int64("client_id", entry.ClientID),
		slog.String("amount", entry.Amount.String()))
	return entry, nil
}

// Delete removes a row. The owning client is untouched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(s.kind.Label()+" deleted", slog.Int64("id", id))
	return nil
}
