// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/nebrown-cam/rook-game/internal/cache"
	"github.com/nebrown-cam/rook-game/internal/database"
	"github.com/nebrown-cam/rook-game/internal/game"
	"github.com/nebrown-cam/rook-game/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on environment")
	}
	if os.Getenv("LOG_LEVEL") == "debug" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(ctx); err != nil {
		logrus.Fatalf("database: %v", err)
	}
	defer database.Close()
	if err := cache.InitRedis(ctx); err != nil {
		logrus.Fatalf("redis: %v", err)
	}

	manager := game.NewManager()
	server := ws.NewServer(manager)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/session", server.HandleSession)
	r.Get("/ws/create", server.HandleCreate)
	r.Get("/ws/join/{code}", server.HandleJoin)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server: %v", err)
		}
	case <-ctx.Done():
		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Errorf("shutdown: %v", err)
		}
	}
}
