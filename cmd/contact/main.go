package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/samims/contactrelay/internal/config"
	"github.com/samims/contactrelay/internal/handler"
	"github.com/samims/contactrelay/internal/kafka"
	"github.com/samims/contactrelay/internal/logger"
	"github.com/samims/contactrelay/internal/metrics"
	customMiddleware "github.com/samims/contactrelay/internal/middleware"
	"github.com/samims/contactrelay/internal/notifier"
	"github.com/samims/contactrelay/internal/router"
	"github.com/samims/contactrelay/internal/sanitizer"
	"github.com/samims/contactrelay/internal/service"
	"github.com/samims/contactrelay/internal/storage"
	"github.com/samims/contactrelay/internal/validator"
	"github.com/samims/contactrelay/pkg/observability"
	"github.com/samims/contactrelay/pkg/tracing"
)

func main() {
	envErr := godotenv.Load()

	l := logger.NewLogger(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(l)
	if envErr != nil {
		l.Debug("No .env file loaded", "err", envErr)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		l.Error("Invalid configuration", slog.Any("err", err))
		os.Exit(1)
	}

	metrics.Init()

	ctx := context.Background()

	tracerShutdown, err := observability.NewTracerProvider(ctx, cfg.App.Name, cfg.Tracing.Endpoint, l)
	if err != nil {
		l.Error("Failed to initialize OpenTelemetry TracerProvider", slog.Any("err", err))
		os.Exit(1)
	}
	defer tracerShutdown()

	var (
		persistence  service.PersistenceChannel
		notification service.NotificationChannel
	)
	if cfg.Engine.Simulate {
		l.Warn("Simulation mode enabled: submissions are neither stored nor delivered")
	} else {
		dbPool, err := storage.NewPostgresPool(ctx, cfg.DB)
		if err != nil {
			l.Error("Failed to connect to database", "err", err)
			os.Exit(1)
		}
		defer dbPool.Close()
		if err := migrate(ctx, dbPool, cfg.DB.AutoMigrate, l); err != nil {
			l.Error("Failed to apply schema", "err", err)
			os.Exit(1)
		}

		relay, err := notifier.NewHTTPRelay(notifier.Config{
			BaseURL: cfg.Relay.BaseURL,
			APIKey:  cfg.Relay.APIKey,
			Timeout: cfg.Relay.Timeout,
		}, l)
		if err != nil {
			l.Error("Failed to create notification relay", "err", err)
			os.Exit(1)
		}

		persistence = service.NewPersistenceChannel(storage.NewPostgresStorage(dbPool), cfg.Engine.PersistTimeout, l)
		notification = service.NewNotificationChannel(relay, cfg.Engine.NotifyTimeout, l)
	}

	events := newEventProducer(cfg.Kafka, l)
	events.Start(ctx)
	defer events.Close(ctx)

	var resolver validator.Resolver
	if cfg.Engine.CheckEmailMX {
		resolver = net.DefaultResolver
	}

	contactSvc, err := service.NewContactService(service.Deps{
		Validator:    validator.New(resolver, l),
		Sanitizer:    sanitizer.New(),
		Persistence:  persistence,
		Notification: notification,
		Events:       events,
	}, service.Options{
		Simulate:         cfg.Engine.Simulate,
		SimulatedLatency: cfg.Engine.SimulatedLatency,
		SupportEmail:     cfg.Engine.SupportEmail,
	}, l)
	if err != nil {
		l.Error("Failed to create contact service", "err", err)
		os.Exit(1)
	}
	healthSvc := service.NewHealthService(persistence, notification, l)
	if cfg.Engine.Simulate {
		healthSvc = service.NewSimulatedHealthService(l)
	}

	var rateLimit func(http.Handler) http.Handler
	if cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Redis.Addr, DialTimeout: 5 * time.Second})
		defer rdb.Close()
		limiter := customMiddleware.NewRedisLimiter(rdb, cfg.Redis.RateLimit, cfg.Redis.Window)
		rateLimit = customMiddleware.RateLimit(limiter, cfg.Redis.TrustedProxies, l)
	} else {
		l.Info("REDIS_ADDR not set, rate limiting disabled")
	}

	r := router.NewRouter(handler.NewContactHandler(contactSvc, l), handler.NewHealthHandler(healthSvc, l), rateLimit)

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Info("Server started", "addr", server.Addr, "env", cfg.App.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("Failed to start server", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down server...")

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxTimeout); err != nil {
		l.Error("Shutdown failed", "err", err)
	} else {
		l.Info("Server exited cleanly")
	}
}

func migrate(ctx context.Context, pool *pgxpool.Pool, enabled bool, l *slog.Logger) error {
	if !enabled {
		return nil
	}
	l.Info("Applying database schema")
	return storage.EnsureSchema(ctx, pool)
}

// newEventProducer falls back to a no-op producer when Kafka is not configured or unreachable.
// Outcome events are best effort and never block startup.
func newEventProducer(cfg config.KafkaConfig, l *slog.Logger) kafka.EventProducer {
	if len(cfg.Brokers) == 0 {
		l.Info("KAFKA_BROKERS not set, outcome events disabled")
		return kafka.NewNoopProducer(l)
	}
	asyncProducer, err := sarama.NewAsyncProducer(cfg.Brokers, kafka.NewSaramaConfig(cfg))
	if err != nil {
		l.Error("Failed to create sarama producer, outcome events disabled", slog.Any("error", err))
		return kafka.NewNoopProducer(l)
	}
	return kafka.NewProducer(asyncProducer, cfg.EventsTopic, l, tracing.NewTracer(tracing.GetTracer("kafka-producer")))
}
