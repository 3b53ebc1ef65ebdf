package clients

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dokon-erp/dokon/internal/shared"
)

const maxFieldLength = 255

// Service coordinates client operations.
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

// List returns a page of clients, most recent first.
func (s *Service) List(ctx context.Context, page shared.PageRequest) (shared.Page[Client], error) {
	items, total, err := s.repo.List(ctx, page)
	if err != nil {
		return shared.Page[Client]{}, err
	}
	return shared.NewPage(items, page, total), nil
}

// ListWithStats returns a page of clients with debt balances for the month
// (all time when the filter has no month).
func (s *Service) ListWithStats(ctx context.Context, filter ListFilter) (shared.Page[ClientWithStats], error) {
	items, total, err := s.repo.ListWithStats(ctx, filter)
	if err != nil {
		return shared.Page[ClientWithStats]{}, err
	}
	return shared.NewPage(items, filter.Page, total), nil
}

// Get loads one client.
func (s *Service) Get(ctx context.Context, id int64) (Client, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new client.
func (s *Service) Create(ctx context.Context, input CreateInput) (Client, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Telephone = strings.TrimSpace(input.Telephone)
	input.Telegram = trimOptional(input.Telegram)

	verr := &shared.ValidationError{}
	requireText(verr, "name", input.Name)
	requireText(verr, "telephone", input.Telephone)
	optionalText(verr, "telegram", input.Telegram)
	if err := verr.OrNil(); err != nil {
		return Client{}, err
	}
	client, err := s.repo.Create(ctx, input)
	if err != nil {
		return Client{}, err
	}
	s.logger.Info("client created", slog.Int64("client_id", client.ID))
	return client, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (Client, error) {
	input.Name = trimOptional(input.Name)
	input.Telephone = trimOptional(input.Telephone)
	input.Telegram = trimOptional(input.Telegram)

	verr := &shared.ValidationError{}
	if input.Name != nil {
		requireText(verr, "name", *input.Name)
	}
	if input.Telephone != nil {
		requireText(verr, "telephone", *input.Telephone)
	}
	optionalText(verr, "telegram", input.Telegram)
	if err := verr.OrNil(); err != nil {
		return Client{}, err
	}
	return s.repo.Update(ctx, id, input)
}

// Delete removes the client. Its debt and payment rows are kept as history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("client deleted", slog.Int64("client_id", id))
	return nil
}

// Count returns the number of clients.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}

func requireText(verr *shared.ValidationError, field, value string) {
	if value == "" {
		verr.Add(field, "The "+field+" field is required.")
		return
	}
	if utf8.RuneCountInString(value) > maxFieldLength {
		verr.Add(field, "The "+field+" field must not be greater than 255 characters.")
	}
}

func optionalText(verr *shared.ValidationError, field string, value *string) {
	if value != nil && utf8.RuneCountInString(*value) > maxFieldLength {
		verr.Add(field, "The "+field+" field must not be greater than 255 characters.")
	}
}
