package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dokon-erp/dokon/internal/platform/db"
	"github.com/dokon-erp/dokon/internal/shared"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByTelegram(ctx context.Context, telegram string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, name, telegram, passwordHash string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.Querier
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

const userColumns = `id, name, telegram, password_hash, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Telegram, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if db.IsNoRows(err) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// NormalizeTelegram strips whitespace and a leading "@" so "@aziz" and "aziz" match.
func NormalizeTelegram(telegram string) string {
	return strings.TrimPrefix(strings.TrimSpace(telegram), "@")
}

// FindByTelegram fetches a user by telegram handle.
func (r *PGRepository) FindByTelegram(ctx context.Context, telegram string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE telegram = $1`, NormalizeTelegram(telegram)))
}

// FindByID fetches a user by id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// Create inserts an active user.
func (r *PGRepository) Create(ctx context.Context, name, telegram, passwordHash string) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `INSERT INTO users (name, telegram, password_hash)
VALUES ($1, $2, $3)
RETURNING `+userColumns, name, NormalizeTelegram(telegram), passwordHash))
	if err != nil {
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return u, nil
}

var _ Repository = (*PGRepository)(nil)
