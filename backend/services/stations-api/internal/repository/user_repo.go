package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	libdb "evcharging/backend/libs/db"
	"evcharging/backend/services/stations-api/internal/models"
)

// UserRepository handles reads and inserts for the users table.
type UserRepository struct {
	db *libdb.DB
}

// NewUserRepository returns repository instance.
func NewUserRepository(db *libdb.DB) *UserRepository {
	return &UserRepository{db: db}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new user. ID and CreatedAt are filled on success.
// Duplicate username or email yields ErrConstraintViolation.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	user.Username = strings.TrimSpace(user.Username)
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	query := r.db.Dialect.Rebind(`
		INSERT INTO users (username, email, password, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`)
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash, createdAt).
		Scan(&user.ID)
	if err != nil {
		if libdb.IsUniqueViolation(err) || libdb.IsValueTooLong(err) {
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.CreatedAt = createdAt
	return nil
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.db.Dialect.Rebind(`
		SELECT id, username, email, password, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`)
	return scanUser(r.db.QueryRowContext(ctx, query, NormalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := r.db.Dialect.Rebind(`
		SELECT id, username, email, password, created_at
		FROM users
		WHERE id = $1
	`)
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// Count returns the number of registered users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
