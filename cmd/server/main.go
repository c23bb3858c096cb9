package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"inkwell/config"
	"inkwell/internal/account"
	"inkwell/internal/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := database.NewDatabase(cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.Migrate(); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	// Deletion integrity requires the sentinel account; provision it up
	// front instead of discovering its absence mid-request.
	if _, err := account.EnsureSentinel(context.Background(), account.NewGormStorage(db.DB)); err != nil {
		logger.Error("failed to provision sentinel account", slog.Any("error", err))
		os.Exit(1)
	}

	server := InitializeServer(db.DB, cfg, logger)

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, server.Handler()); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
