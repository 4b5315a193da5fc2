package handler

import (
	"log/slog"
	"net/http"

	"github.com/samims/contactrelay/internal/model"
	"github.com/samims/contactrelay/internal/service"
)

type HealthHandler struct {
	service service.HealthService
	logger  *slog.Logger
}

func NewHealthHandler(svc service.HealthService, l *slog.Logger) *HealthHandler {
	return &HealthHandler{service: svc, logger: l}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	err := h.service.Liveness(r.Context())
	if err != nil {
		http.Error(w, "unhealthy", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	err := h.service.Readiness(r.Context())
	if err != nil {
		h.logger.Warn("Readiness check failed", slog.Any("error", err))
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

// Status reports per-channel health. Degraded still answers 200.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	health := h.service.Check(r.Context())
	status := http.StatusOK
	if health.Overall == model.HealthDown {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}
