package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samims/contactrelay/internal/model"
	"github.com/samims/contactrelay/internal/service"
	"github.com/samims/contactrelay/pkg/tracing"
)

const maxBodyBytes = 64 << 10

type ContactHandler struct {
	svc    service.ContactService
	logger *slog.Logger
}

func NewContactHandler(s service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{svc: s, logger: logger.With("layer", "handler", "component", "contactHandler")}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	tracer := tracing.NewTracer(tracing.GetTracer("contact-handler"))
	ctx, span := tracer.StartServerSpan(r.Context(), "Submit")
	defer span.End()

	var sub model.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&sub); err != nil {
		tracer.RecordError(span, err)
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.logger.Warn("Invalid request body for Submit", slog.Any("error", err))
		writeJSON(w, status, model.SubmissionResult{
			Success: false,
			Message: "The request could not be read. Please send the form fields as JSON.",
			Error:   "invalid request body",
		})
		return
	}

	result := h.svc.Process(ctx, sub)
	writeJSON(w, StatusFor(result), result)
}

// StatusFor maps a processed submission to its HTTP status.
func StatusFor(result model.SubmissionResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.Outcome {
	case model.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	case model.OutcomeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
	}
}
