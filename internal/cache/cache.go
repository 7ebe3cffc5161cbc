// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared Redis client. Nil when Redis is not configured, in
// which case action logging is silently skipped.
var Rdb *redis.Client

// actionListKeyPrefix namespaces per-game action queues consumed by the
// historian worker.
const actionListKeyPrefix = "rook:actions:"

// GameActionRecord is one entry in a game's action history, queued to
// Redis for asynchronous persistence and replay.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorUserID   uuid.UUID              `json:"actorUserId"`
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload"`
	Timestamp     int64                  `json:"timestamp"`
}

// InitRedis connects the shared client using REDIS_ADDR (and optionally
// REDIS_PASSWORD). Leaves Rdb nil when REDIS_ADDR is unset.
func InitRedis(ctx context.Context) error {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logrus.Warn("REDIS_ADDR not set; game action history disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", addr, err)
	}
	Rdb = client
	logrus.Infof("connected to redis at %s", addr)
	return nil
}

// PublishGameAction appends a record to the game's action queue.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal action %d: %w", rec.ActionIndex, err)
	}
	key := actionListKeyPrefix + rec.GameID.String()
	if err := Rdb.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

// FetchGameActions returns the recorded history of a game in order.
func FetchGameActions(ctx context.Context, gameID uuid.UUID) ([]GameActionRecord, error) {
	if Rdb == nil {
		return nil, nil
	}
	key := actionListKeyPrefix + gameID.String()
	raw, err := Rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	records := make([]GameActionRecord, 0, len(raw))
	for _, item := range raw {
		var rec GameActionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			logrus.Warnf("skipping malformed action record in %s: %v", key, err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
