package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/dokon-erp/dokon/internal/shared"
)

// ErrInactive reports a deactivated account.
var ErrInactive = fmt.Errorf("account is inactive: %w", shared.ErrForbidden)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
	logger *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Authenticate validates telegram/password credentials.
func (s *Service) Authenticate(ctx context.Context, telegram, password string) (*User, error) {
	user, err := s.repo.FindByTelegram(ctx, NormalizeTelegram(telegram))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}
	return user, nil
}

// Login authenticates and issues a token, revoking the user's earlier tokens.
func (s *Service) Login(ctx context.Context, telegram, password string) (Session, error) {
	user, err := s.Authenticate(ctx, telegram, password)
	if err != nil {
		return Session{}, err
	}
	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("auth: issue token: %w", err)
	}
	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	return Session{User: *user, Token: token}, nil
}

// Resolve maps a bearer token to the caller.
func (s *Service) Resolve(ctx context.Context, token string) (*shared.Principal, error) {
	userID, err := s.tokens.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		if err := s.tokens.RevokeAll(ctx, user.ID); err != nil {
			s.logger.Warn("revoke tokens of inactive user", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
		return nil, ErrInactive
	}
	return &shared.Principal{UserID: user.ID, Name: user.Name, Telegram: user.Telegram, Token: token}, nil
}

// Logout revokes the caller's current token.
func (s *Service) Logout(ctx context.Context, p *shared.Principal) error {
	if p == nil {
		return shared.ErrUnauthorized
	}
	if err := s.tokens.Revoke(ctx, p.Token); err != nil {
		return fmt.Errorf("auth: revoke token: %w", err)
	}
	s.logger.Info("user logged out", slog.Int64("user_id", p.UserID))
	return nil
}

// Refresh swaps the caller's current token for a new one.
func (s *Service) Refresh(ctx context.Context, p *shared.Principal) (string, error) {
	if p == nil {
		return "", shared.ErrUnauthorized
	}
	token, err := s.tokens.Rotate(ctx, p.UserID, p.Token)
	if err != nil {
		return "", fmt.Errorf("auth: rotate token: %w", err)
	}
	return token, nil
}

// CreateUser hashes the password and stores an active account.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Telegram = NormalizeTelegram(input.Telegram)
	verr := &shared.ValidationError{}
	if input.Name == "" {
		verr.Add("name", "The name field is required.")
	}
	if input.Telegram == "" {
		verr.Add("telegram", "The telegram field is required.")
	}
	if utf8.RuneCountInString(input.Password) < 8 {
		verr.Add("password", "The password field must be at least 8 characters.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user, err := s.repo.Create(ctx, input.Name, input.Telegram, string(hash))
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", slog.Int64("user_id", user.ID), slog.String("telegram", user.Telegram))
	return user, nil
}
