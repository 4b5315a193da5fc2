package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/samims/contactrelay/internal/model"
)

var ErrNotReady = errors.New("no channel is available")

// HealthService reports the health of both channels.
type HealthService interface {
	Check(ctx context.Context) model.SystemHealth
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

type healthService struct {
	persistence  PersistenceChannel
	notification NotificationChannel
	simulated    bool
	logger       *slog.Logger
}

// NewHealthService builds the probe. A nil channel is reported as down.
func NewHealthService(persistence PersistenceChannel, notification NotificationChannel, logger *slog.Logger) HealthService {
	l := logger.With("layer", "service", "component", "healthService")
	return &healthService{persistence: persistence, notification: notification, logger: l}
}

// NewSimulatedHealthService reports both channels up without probing anything.
// It pairs with a ContactService built with Options.Simulate.
func NewSimulatedHealthService(logger *slog.Logger) HealthService {
	l := logger.With("layer", "service", "component", "healthService")
	return &healthService{simulated: true, logger: l}
}

// Check runs both channel checks concurrently. A failing or panicking check marks
// only its own channel as down.
func (s *healthService) Check(ctx context.Context) model.SystemHealth {
	if s.simulated {
		health := model.NewSystemHealth(true, true)
		health.Simulated = true
		return health
	}

	var persistenceUp, notificationUp bool

	var g errgroup.Group
	g.Go(func() error {
		if s.persistence != nil {
			persistenceUp = s.safeCheck(model.ChannelPersistence, func() bool { return s.persistence.HealthCheck(ctx) })
		}
		return nil
	})
	g.Go(func() error {
		if s.notification != nil {
			notificationUp = s.safeCheck(model.ChannelNotification, func() bool { return s.notification.HealthCheck(ctx) })
		}
		return nil
	})
	_ = g.Wait()

	health := model.NewSystemHealth(persistenceUp, notificationUp)
	if health.Overall != model.HealthHealthy {
		s.logger.Warn("System not healthy",
			slog.Bool("persistence", persistenceUp),
			slog.Bool("notification", notificationUp),
			slog.String("overall", health.Overall))
	}
	return health
}

func (s *healthService) safeCheck(channel string, check func() bool) (up bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Health check panicked", slog.String("channel", channel), slog.Any("panic", r))
			up = false
		}
	}()
	return check()
}

func (s *healthService) Liveness(ctx context.Context) error {
	s.logger.Debug("Liveness check passed")
	return nil
}

// Readiness fails only when neither channel is up; a degraded service still accepts submissions.
func (s *healthService) Readiness(ctx context.Context) error {
	if s.Check(ctx).Overall == model.HealthDown {
		return ErrNotReady
	}
	return nil
}
