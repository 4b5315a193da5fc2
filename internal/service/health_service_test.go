package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/samims/contactrelay/internal/model"
)

func Test_healthService_Check(t *testing.T) {
	tests := []struct {
		name         string
		persistence  func(c *mock.Call)
		notification func(c *mock.Call)
		want         model.SystemHealth
	}{
		{
			name:         "both up",
			persistence:  func(c *mock.Call) { c.Return(true) },
			notification: func(c *mock.Call) { c.Return(true) },
			want:         model.SystemHealth{Persistence: true, Notification: true, Overall: model.HealthHealthy},
		},
		{
			name:         "notification down",
			persistence:  func(c *mock.Call) { c.Return(true) },
			notification: func(c *mock.Call) { c.Return(false) },
			want:         model.SystemHealth{Persistence: true, Notification: false, Overall: model.HealthDegraded},
		},
		{
			name:         "persistence down",
			persistence:  func(c *mock.Call) { c.Return(false) },
			notification: func(c *mock.Call) { c.Return(true) },
			want:         model.SystemHealth{Persistence: false, Notification: true, Overall: model.HealthDegraded},
		},
		{
			name:         "persistence panics and notification down",
			persistence:  func(c *mock.Call) { c.Panic("driver exploded") },
			notification: func(c *mock.Call) { c.Return(false) },
			want:         model.SystemHealth{Persistence: false, Notification: false, Overall: model.HealthDown},
		},
		{
			name:         "both panic",
			persistence:  func(c *mock.Call) { c.Panic("boom") },
			notification: func(c *mock.Call) { c.Panic("boom") },
			want:         model.SystemHealth{Overall: model.HealthDown},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewMockPersistenceChannel(t)
			tt.persistence(p.On("HealthCheck", mock.Anything))
			n := NewMockNotificationChannel(t)
			tt.notification(n.On("HealthCheck", mock.Anything))

			svc := NewHealthService(p, n, slog.Default())

			var got model.SystemHealth
			assert.NotPanics(t, func() { got = svc.Check(context.Background()) })
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_healthService_Readiness(t *testing.T) {
	p := NewMockPersistenceChannel(t)
	p.On("HealthCheck", mock.Anything).Return(false)
	n := NewMockNotificationChannel(t)
	n.On("HealthCheck", mock.Anything).Return(true).Once()
	n.On("HealthCheck", mock.Anything).Return(false).Once()

	svc := NewHealthService(p, n, slog.Default())

	assert.NoError(t, svc.Readiness(context.Background()), "degraded is still ready")
	assert.ErrorIs(t, svc.Readiness(context.Background()), ErrNotReady)
	assert.NoError(t, svc.Liveness(context.Background()))
}

func Test_healthService_NilChannelsAreDown(t *testing.T) {
	got := NewHealthService(nil, nil, slog.Default()).Check(context.Background())
	assert.Equal(t, model.SystemHealth{Overall: model.HealthDown}, got)
}

func Test_healthService_Simulated(t *testing.T) {
	svc := NewSimulatedHealthService(slog.Default())

	got := svc.Check(context.Background())
	assert.Equal(t, model.SystemHealth{Persistence: true, Notification: true, Overall: model.HealthHealthy, Simulated: true}, got)
	assert.NoError(t, svc.Readiness(context.Background()))
}
