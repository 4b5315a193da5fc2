package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	appErr "github.com/samims/contactrelay/internal/errors"
	"github.com/samims/contactrelay/internal/metrics"
	"github.com/samims/contactrelay/internal/model"
	"github.com/samims/contactrelay/internal/notifier"
	"github.com/samims/contactrelay/internal/storage"
	"github.com/samims/contactrelay/pkg/tracing"
)

const healthCheckTimeout = 2 * time.Second

// PersistenceChannel durably stores submissions.
// Submit never returns an error: every failure is a failed ChannelOutcome.
type PersistenceChannel interface {
	Submit(ctx context.Context, s model.Submission) model.ChannelOutcome
	HealthCheck(ctx context.Context) bool
}

// NotificationChannel delivers the staff and submitter notifications.
type NotificationChannel interface {
	Send(ctx context.Context, s model.Submission) model.ChannelOutcome
	HealthCheck(ctx context.Context) bool
}

type storageChannel struct {
	store   storage.SubmissionStorage
	timeout time.Duration
	logger  *slog.Logger
	tracer  *tracing.Tracer
}

// NewPersistenceChannel adapts a SubmissionStorage. Each Submit is bounded by timeout.
func NewPersistenceChannel(store storage.SubmissionStorage, timeout time.Duration, logger *slog.Logger) PersistenceChannel {
	return &storageChannel{
		store:   store,
		timeout: timeout,
		logger:  logger.With("layer", "service", "component", "persistenceChannel"),
		tracer:  tracing.NewTracer(tracing.GetTracer("contact-service")),
	}
}

func (c *storageChannel) Submit(ctx context.Context, s model.Submission) model.ChannelOutcome {
	ctx, span := c.tracer.StartClientSpan(ctx, "persistence.Submit")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	stored, err := c.store.Save(ctx, s)
	elapsed := time.Since(start)
	observe(model.ChannelPersistence, err == nil, elapsed)
	c.tracer.AddChannelAttributes(span, model.ChannelPersistence, err == nil, elapsed)

	if err != nil {
		chErr := appErr.NewChannel(model.ChannelPersistence, "submit", timeoutAware(err, c.timeout))
		c.tracer.RecordError(span, chErr)
		c.logger.Error("Persisting submission failed", slog.Any("error", chErr))
		return model.Failed(chErr.Error())
	}

	c.logger.Info("Submission persisted", slog.String("id", stored.ID))
	return model.Succeeded(stored.ID, 0)
}

func (c *storageChannel) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := c.store.Ping(ctx); err != nil {
		c.logger.Warn("Persistence health check failed", slog.Any("error", err))
		return false
	}
	return true
}

type relayChannel struct {
	relay   notifier.Relay
	timeout time.Duration
	logger  *slog.Logger
	tracer  *tracing.Tracer
}

// NewNotificationChannel adapts a notifier.Relay. Each Send is bounded by timeout.
func NewNotificationChannel(relay notifier.Relay, timeout time.Duration, logger *slog.Logger) NotificationChannel {
	return &relayChannel{
		relay:   relay,
		timeout: timeout,
		logger:  logger.With("layer", "service", "component", "notificationChannel"),
		tracer:  tracing.NewTracer(tracing.GetTracer("contact-service")),
	}
}

func (c *relayChannel) Send(ctx context.Context, s model.Submission) model.ChannelOutcome {
	ctx, span := c.tracer.StartClientSpan(ctx, "notification.Send")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	sent, err := c.relay.Notify(ctx, s)
	elapsed := time.Since(start)
	observe(model.ChannelNotification, err == nil, elapsed)
	c.tracer.AddChannelAttributes(span, model.ChannelNotification, err == nil, elapsed)

	if err != nil {
		chErr := appErr.NewChannel(model.ChannelNotification, "send", timeoutAware(err, c.timeout))
		c.tracer.RecordError(span, chErr)
		c.logger.Error("Sending notifications failed", slog.Any("error", chErr))
		return model.Failed(chErr.Error())
	}

	c.logger.Info("Notifications sent", slog.Int("count", sent))
	return model.Succeeded("", sent)
}

func (c *relayChannel) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := c.relay.Ping(ctx); err != nil {
		c.logger.Warn("Notification health check failed", slog.Any("error", err))
		return false
	}
	return true
}

func observe(channel string, ok bool, elapsed time.Duration) {
	metrics.ChannelAttempts.WithLabelValues(channel, metrics.Result(ok)).Inc()
	metrics.ChannelDuration.WithLabelValues(channel).Observe(elapsed.Seconds())
}

func timeoutAware(err error, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %s: %w", timeout, err)
	}
	return err
}
