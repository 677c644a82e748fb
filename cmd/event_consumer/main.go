package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"servicebook/internal/config"
	"servicebook/internal/events"
	"servicebook/internal/pkg/logger"

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

	if cfg.AMQPURL == "" {
		lg.Fatal("AMQP_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("consuming events", zap.String("queue", cfg.AMQPQueue))
	err = events.Consume(ctx, cfg.AMQPURL, cfg.AMQPQueue, lg, func(_ context.Context, e events.Event) error {
		lg.Info("event",
			zap.String("id", e.ID),
			zap.String("type", string(e.Type)),
			zap.Int64("reservation_id", e.ReservationID),
			zap.Int64("user_id", e.UserID),
			zap.Int64("professional_id", e.ProfessionalID),
			zap.String("status", e.Status),
			zap.Time("occurred_at", e.OccurredAt),
		)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		lg.Fatal("consumer stopped", zap.Error(err))
	}
	lg.Info("consumer stopped")
}
