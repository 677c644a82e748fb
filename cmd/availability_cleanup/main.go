package main

import (
	"context"
	"log"
	"time"

	"servicebook/internal/config"
	"servicebook/internal/database"
	"servicebook/internal/domain"
	"servicebook/internal/pkg/logger"
	"servicebook/internal/repository"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("db connect failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	today := time.Now().UTC().Format(domain.DateLayout)
	n, err := repository.NewAvailabilityRepository(db).DeletePastAvailable(ctx, today)
	if err != nil {
		lg.Fatal("availability cleanup failed", zap.Error(err))
	}

	lg.Info("availability cleanup completed", zap.String("before", today), zap.Int64("deleted", n))
}
