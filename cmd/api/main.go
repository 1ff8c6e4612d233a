package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"reup-todo-backend/internal/config"
	"reup-todo-backend/internal/db"
	"reup-todo-backend/internal/logging"
	"reup-todo-backend/internal/server"
	"reup-todo-backend/internal/tasks"
)

const connectTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Failed to load config", "err", err)
	}

	logger := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("❌ Invalid config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	repo, err := db.Open(connectCtx, cfg.DatabaseURI)
	cancel()
	if err != nil {
		logger.Fatal("❌ Database connection error", "backend", db.Backend(cfg.DatabaseURI), "err", err)
	}

	logger.Info("✅ Connected to " + db.Backend(cfg.DatabaseURI))

	srv := server.New(tasks.NewService(repo), cfg.CORSOrigins, logger)
	serveErr := srv.ListenAndServe(ctx, cfg.Addr())

	if err := repo.Close(context.Background()); err != nil {
		logger.Error("close store", "err", err)
	}
	if serveErr != nil {
		logger.Fatal("server stopped", "err", serveErr)
	}
}
