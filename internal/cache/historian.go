// internal/cache/historian.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultHistorianKey is the Redis list that receives game action records.
const DefaultHistorianKey = "stack:game_actions"

// GameActionRecord is one accepted action, queued for the historian consumer.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	RoomID        string                 `json:"roomId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorUserID   uuid.UUID              `json:"actorUserId"` // uuid.Nil for game-driven events.
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"` // Unix milliseconds.
}

// Connect opens a Redis client and verifies it with a PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

// Historian appends action records to a Redis list.
type Historian struct {
	rdb redis.Cmdable
	key string
}

// NewHistorian returns a historian writing to key. An empty key uses DefaultHistorianKey.
func NewHistorian(rdb redis.Cmdable, key string) *Historian {
	if key == "" {
		key = DefaultHistorianKey
	}
	return &Historian{rdb: rdb, key: key}
}

// PublishGameAction pushes a JSON-encoded record onto the historian list.
func (h *Historian) PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action record: %w", err)
	}
	if err := h.rdb.RPush(ctx, h.key, data).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", h.key, err)
	}
	return nil
}
