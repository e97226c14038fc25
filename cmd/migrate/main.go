package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/alamin00006/business-management/internal/config"
	"github.com/alamin00006/business-management/internal/db"
	"github.com/alamin00006/business-management/internal/repository"
)

func main() {
	seed := flag.Bool("seed", false, "insert demo data after migrating")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.Migrate(ctx); err != nil {
		logger.Error("migration failed", "err", err)
		os.Exit(1)
	}
	logger.Info("schema migrated")

	if *seed {
		if err := repository.Seed(ctx, pg); err != nil {
			logger.Error("seeding failed", "err", err)
			os.Exit(1)
		}
		logger.Info("demo data seeded")
	}
}
