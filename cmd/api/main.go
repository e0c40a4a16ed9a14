package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/taskflow/taskflow-go/internal/api"
	"github.com/taskflow/taskflow-go/internal/config"
	"github.com/taskflow/taskflow-go/internal/session"
	"github.com/taskflow/taskflow-go/internal/store"
	"github.com/taskflow/taskflow-go/internal/store/memstore"
	"github.com/taskflow/taskflow-go/internal/store/sqlstore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var st store.Store
	st, err = sqlstore.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed — falling back to in-memory storage",
			"driver", cfg.DatabaseDriver, "error", err)
		st = memstore.New()
	}
	defer st.Close()

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.Production())

	r := api.NewRouter(st, sessions, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
