// internal/database/database.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool. Nil when Postgres is not configured,
// in which case persistence is silently skipped.
var DB *pgxpool.Pool

// Connect opens the pool using DATABASE_URL and verifies connectivity.
// Leaves DB nil when DATABASE_URL is unset.
func Connect(ctx context.Context) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		logrus.Warn("DATABASE_URL not set; game persistence disabled")
		return nil
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("pgx pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("postgres ping: %w", err)
	}
	DB = pool
	logrus.Info("connected to postgres")
	return nil
}

// Close releases the pool.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

// UpsertInitialRoundState stores the deal snapshot for a game so a round
// can be audited or replayed. Safe to call repeatedly per game.
func UpsertInitialRoundState(gameID uuid.UUID, snapshot interface{}) {
	if DB == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		logrus.Errorf("game %s: marshal initial state: %v", gameID, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = DB.Exec(ctx, `
		INSERT INTO game_rounds (game_id, initial_state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (game_id) DO UPDATE
		SET initial_state = EXCLUDED.initial_state, updated_at = now()`,
		gameID, data)
	if err != nil {
		logrus.Errorf("game %s: upsert initial state: %v", gameID, err)
	}
}

// StoreFinalGameState records the completed game's outcome.
func StoreFinalGameState(ctx context.Context, gameID uuid.UUID, snapshot interface{}) {
	if DB == nil {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		logrus.Errorf("game %s: marshal final state: %v", gameID, err)
		return
	}
	execCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = DB.Exec(execCtx, `
		INSERT INTO game_results (game_id, final_state, finished_at)
		VALUES ($1, $2, now())
		ON CONFLICT (game_id) DO UPDATE
		SET final_state = EXCLUDED.final_state, finished_at = now()`,
		gameID, data)
	if err != nil {
		logrus.Errorf("game %s: store final state: %v", gameID, err)
	}
}
