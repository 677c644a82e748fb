package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"servicebook/internal/cache"
	"servicebook/internal/config"
	"servicebook/internal/database"
	"servicebook/internal/events"
	"servicebook/internal/middleware"
	jwtsvc "servicebook/internal/pkg/jwt"
	"servicebook/internal/pkg/logger"
	"servicebook/internal/repository"
	"servicebook/internal/server"

	"github.com/gin-gonic/gin"
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

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("db connect failed", zap.Error(err))
	}
	if err := repository.AutoMigrate(db); err != nil {
		lg.Fatal("migration failed", zap.Error(err))
	}

	deps := server.Deps{
		DB:             db,
		JWT:            jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Log:            lg,
		Cache:          cache.NewMemory(),
		CatalogTTL:     cfg.CatalogCacheTTL,
		LoginLimiter:   middleware.NewLocalLimiter(cfg.LoginRatePerMinute, cfg.LoginRateBurst),
		AllowedOrigins: cfg.AllowedOrigins(),
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			lg.Warn("redis unavailable, using in-process cache and rate limiter", zap.Error(err))
		} else {
			defer func() { _ = rdb.Close() }()
			deps.Cache = cache.NewRedisCache(rdb)
			deps.LoginLimiter = middleware.NewRedisLimiter(rdb, cfg.LoginRatePerMinute, cfg.LoginRateBurst)
			lg.Info("redis connected", zap.String("addr", cfg.RedisAddr))
		}
	}

	if cfg.AMQPURL != "" {
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue, lg)
		if err != nil {
			lg.Warn("amqp unavailable, events stay in-process", zap.Error(err))
		} else {
			defer func() { _ = pub.Close() }()
			async := events.NewAsync(pub, 1024, 5*time.Second, lg.Named("amqp"))
			defer async.Close()
			deps.Sinks = append(deps.Sinks, async)
		}
	}

	srv := server.New(deps)
	defer srv.Hub.Close()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}
