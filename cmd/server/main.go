package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/repository"
	"shareit/internal/service"
	"shareit/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := logging.Component(baseLogger, "server-main")

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("database init failed")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, rateLimiter := initRateLimiter(ctx, cfg, &logger)
	if redisClient != nil {
		defer func() { _ = repository.Close(redisClient) }()
	}

	metrics.Register()

	exportWorker := worker.NewExportWorker(db, cfg.Exports.Path, worker.RetryPolicy{}, &logger)
	go exportWorker.Start(ctx)

	eventBus := events.NewEventBus()
	subscribeAuditLog(eventBus, &logger)

	bookingService := service.NewBookingService(db, db, db, eventBus, &logger)
	userService := service.NewUserService(db, &logger)
	itemService := service.NewItemService(db, db, bookingService, eventBus, &logger)
	requestService := service.NewRequestService(db, db, &logger)

	server := api.NewServer(*cfg, api.Deps{
		Users:       userService,
		Items:       itemService,
		Bookings:    bookingService,
		Requests:    requestService,
		Exports:     exportWorker,
		RateLimiter: rateLimiter,
	}, &logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backupService.Start(ctx)
	}

	logger.Info().Str("version", cfg.App.Version).Msg("shareit server started")
	<-ctx.Done()
	logger.Info().Msg("shutdown complete")
	return nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create database directory")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("failed to create exports directory")
		return err
	}
	return nil
}

// initRateLimiter собирает failover-лимитер: Redis как общий счетчик,
// память как резерв на время его недоступности.
func initRateLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, repository.RateLimiter) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if err := repository.Ping(ctx, redisClient); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable")
		}
	}

	primary := repository.NewRedisRateLimiter(redisClient)
	fallback := repository.NewMemoryRateLimiter()
	return redisClient, repository.NewFailoverRateLimiter(primary, fallback, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}

// subscribeAuditLog пишет журнальную запись на каждое событие аренды.
func subscribeAuditLog(bus *events.EventBus, logger *zerolog.Logger) {
	bookingHandler := func(ev *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().
			Str("event", ev.Type).
			Int64("booking_id", payload.BookingID).
			Int64("item_id", payload.ItemID).
			Str("status", payload.Status).
			Msg("booking event")
		return nil
	}

	commentHandler := func(ev *events.Event) error {
		var payload events.CommentEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().
			Str("event", ev.Type).
			Int64("comment_id", payload.CommentID).
			Int64("item_id", payload.ItemID).
			Msg("comment event")
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, bookingHandler)
	bus.Subscribe(events.EventBookingApproved, bookingHandler)
	bus.Subscribe(events.EventBookingRejected, bookingHandler)
	bus.Subscribe(events.EventCommentAdded, commentHandler)
}
