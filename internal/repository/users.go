package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/armadagame/armada-server/internal/game"
)

// UserRecord is the identity-provider view of a user consumed by the
// synchronization layer.
type UserRecord struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository reads and writes user records.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a user repository on the shared pool.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUser loads the record for the given user ID. Missing users map to
// game.ErrNotFound.
func (r *UserRepository) GetUser(ctx context.Context, userID string) (*UserRecord, error) {
	var rec UserRecord
	err := r.db.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id = $1`, userID,
	).Scan(&rec.ID, &rec.Username, &rec.PasswordHash, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", game.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	return &rec, nil
}

// CreateUser inserts a new user record.
func (r *UserRepository) CreateUser(ctx context.Context, rec *UserRecord) error {
	_, err := r.db.pool.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.Username, rec.PasswordHash, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user %s: %w", rec.ID, err)
	}

	return nil
}
