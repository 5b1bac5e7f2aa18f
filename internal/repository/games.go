package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/armadagame/armada-server/internal/game"
)

// GameRepository persists game states as JSONB rows.
type GameRepository struct {
	db *DB
}

// NewGameRepository creates a game repository on the shared pool.
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db}
}

// GetGame loads the state for the given game. Missing games map to
// game.ErrNotFound.
func (r *GameRepository) GetGame(ctx context.Context, gameID string) (*game.GameState, error) {
	var data []byte
	err := r.db.pool.QueryRow(ctx,
		`SELECT state FROM games WHERE id = $1`, gameID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: game %s", game.ErrNotFound, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}

	var gs game.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("failed to decode game %s: %w", gameID, err)
	}

	return &gs, nil
}

// SaveGame upserts the state for the given game.
func (r *GameRepository) SaveGame(ctx context.Context, gameID string, gs *game.GameState) error {
	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to encode game %s: %w", gameID, err)
	}

	_, err = r.db.pool.Exec(ctx,
		`INSERT INTO games (id, state, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET state = EXCLUDED.state, updated_at = now()`,
		gameID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", gameID, err)
	}

	return nil
}
