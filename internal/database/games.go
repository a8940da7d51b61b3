// internal/database/games.go
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id            UUID NOT NULL,
	round         INTEGER NOT NULL,
	room_id       TEXT NOT NULL,
	initial_state JSONB,
	final_state   JSONB,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at   TIMESTAMPTZ,
	PRIMARY KEY (id, round)
)`

// Store archives the initial deal and final result of each round, keyed by
// game id and round number.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pgx pool for url and verifies it.
func Connect(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Migrate creates the games table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate games: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// UpsertInitialGameState records the deal of one round of a game.
func (s *Store) UpsertInitialGameState(ctx context.Context, gameID uuid.UUID, round int, roomID string, snapshot any) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal initial state: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO games (id, round, room_id, initial_state)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id, round) DO UPDATE SET initial_state = EXCLUDED.initial_state`,
		gameID, round, roomID, data)
	if err != nil {
		return fmt.Errorf("upsert initial state for game %s: %w", gameID, err)
	}
	return nil
}

// StoreFinalGameState records the revealed hands, scores and winners of a round.
// It inserts the row if the initial deal has not landed yet.
func (s *Store) StoreFinalGameState(ctx context.Context, gameID uuid.UUID, round int, roomID string, snapshot any) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal final state: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO games (id, round, room_id, final_state, finished_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id, round) DO UPDATE
		SET final_state = EXCLUDED.final_state, finished_at = EXCLUDED.finished_at`,
		gameID, round, roomID, data)
	if err != nil {
		return fmt.Errorf("store final state for game %s: %w", gameID, err)
	}
	return nil
}
