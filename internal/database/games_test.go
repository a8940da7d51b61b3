package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestArchiveRoundTrip runs against a real Postgres when TEST_DATABASE_URL is set.
func TestArchiveRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := Connect(ctx, url)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	gameID := uuid.New()
	// The final state may land first; the initial write must not clobber it.
	require.NoError(t, store.StoreFinalGameState(ctx, gameID, 1, "room", map[string]any{"winners": []string{"a"}}))
	require.NoError(t, store.UpsertInitialGameState(ctx, gameID, 1, "room", map[string]any{"deck": 46}))
	require.NoError(t, store.UpsertInitialGameState(ctx, gameID, 2, "room", map[string]any{"deck": 46}))

	var initial, final []byte
	err = store.pool.QueryRow(ctx, `SELECT initial_state, final_state FROM games WHERE id = $1 AND round = 1`, gameID).Scan(&initial, &final)
	require.NoError(t, err)
	assert.JSONEq(t, `{"deck":46}`, string(initial))
	assert.JSONEq(t, `{"winners":["a"]}`, string(final))

	var rounds int
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT count(*) FROM games WHERE id = $1`, gameID).Scan(&rounds))
	assert.Equal(t, 2, rounds)
}
