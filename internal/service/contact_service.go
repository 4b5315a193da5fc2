package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	appErr "github.com/samims/contactrelay/internal/errors"
	"github.com/samims/contactrelay/internal/kafka"
	"github.com/samims/contactrelay/internal/metrics"
	"github.com/samims/contactrelay/internal/model"
	"github.com/samims/contactrelay/internal/sanitizer"
	"github.com/samims/contactrelay/internal/validator"
	"github.com/samims/contactrelay/pkg/tracing"
)

const (
	simulatedNotifications = 2
	eventPublishTimeout    = 2 * time.Second
)

// ContactService reconciles one submission across the persistence and notification channels.
type ContactService interface {
	// Process always returns a result; failures are reported inside it.
	Process(ctx context.Context, raw model.Submission) model.SubmissionResult
}

// Options are fixed at construction time.
type Options struct {
	// Simulate skips both channels and returns a synthetic success. Never set in production.
	Simulate         bool
	SimulatedLatency time.Duration
	SupportEmail     string
}

type Deps struct {
	Validator    validator.Validator
	Sanitizer    sanitizer.Sanitizer
	Persistence  PersistenceChannel
	Notification NotificationChannel
	Events       kafka.EventProducer
}

type contactService struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
	tracer *tracing.Tracer
	newID  func() string
}

func NewContactService(deps Deps, opts Options, logger *slog.Logger) (ContactService, error) {
	if deps.Validator == nil || deps.Sanitizer == nil || deps.Events == nil {
		return nil, fmt.Errorf("validator, sanitizer and event producer are required")
	}
	if !opts.Simulate && (deps.Persistence == nil || deps.Notification == nil) {
		return nil, fmt.Errorf("both channels are required unless simulating")
	}
	if opts.SupportEmail == "" {
		opts.SupportEmail = "support@example.com"
	}
	return &contactService{
		deps:   deps,
		opts:   opts,
		logger: logger.With("layer", "service", "component", "contactService"),
		tracer: tracing.NewTracer(tracing.GetTracer("contact-service")),
		newID:  func() string { return uuid.New().String() },
	}, nil
}

// Branch is one cell of the persisted × notified decision table.
type Branch int

const (
	BranchComplete Branch = iota
	BranchPersistFailed
	BranchNotifyFailed
	BranchFallback
)

// Classify maps the two channel results to a branch. Only the success flags matter.
func Classify(persisted, notified bool) Branch {
	switch {
	case persisted && notified:
		return BranchComplete
	case !persisted && notified:
		return BranchPersistFailed
	case persisted && !notified:
		return BranchNotifyFailed
	default:
		return BranchFallback
	}
}

// panicError carries a panic out of a channel goroutine so it can be re-raised
// on the goroutine running Process.
type panicError struct {
	value any
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

func (s *contactService) Process(ctx context.Context, raw model.Submission) (result model.SubmissionResult) {
	ctx, span := s.tracer.StartInternalSpan(ctx, "Process")
	defer span.End()

	var outcome string
	defer func() {
		if r := recover(); r != nil {
			result, outcome = s.recoverUnexpected(ctx, raw, r)
		}
		result.Outcome = outcome
		s.finish(ctx, span, outcome, result)
	}()

	result, outcome = s.process(ctx, raw)
	return result
}

func (s *contactService) process(ctx context.Context, raw model.Submission) (model.SubmissionResult, string) {
	if err := s.deps.Validator.Validate(ctx, raw); err != nil {
		var ve *appErr.ValidationError
		if !errors.As(err, &ve) {
			// nothing was validated, so nothing may be sent
			s.logger.Error("Validator failed", slog.Any("error", err))
			return s.unexpectedFailure(err.Error()), model.OutcomeUnexpected
		}
		s.logger.Info("Submission failed validation", slog.Int("problems", len(ve.Problems)))
		return model.SubmissionResult{
			Success: false,
			Message: "Please correct the following: " + ve.Error(),
			Error:   ve.Error(),
		}, model.OutcomeInvalid
	}

	clean := s.deps.Sanitizer.Sanitize(raw)

	if s.opts.Simulate {
		return s.simulate(ctx), model.OutcomeSimulated
	}

	// Channel work outlives the caller: an accepted submission is not abandoned when the
	// client goes away. Each attempt is still bounded by its channel timeout.
	ctx = context.WithoutCancel(ctx)

	persist, notify := s.attemptBoth(ctx, clean)

	switch Classify(persist.Success, notify.Success) {
	case BranchComplete:
		s.logger.Info("Submission persisted and notified",
			slog.String("id", persist.ID), slog.Int("notifications", notify.Count))
		return model.SubmissionResult{
			Success: true,
			Message: "Thank you! Your message has been received and a confirmation has been sent to your email.",
			Data: model.ResultData{
				SubmissionID:      persist.ID,
				NotificationsSent: model.Int(notify.Count),
				Persisted:         model.Bool(true),
				FallbackUsed:      model.Bool(false),
			},
		}, model.OutcomeComplete

	case BranchPersistFailed:
		s.logger.Warn("Submission notified but not persisted", slog.String("reason", persist.Reason))
		return model.SubmissionResult{
			Success: true,
			Message: "Thank you! Your message has been sent to our team.",
			Data: model.ResultData{
				NotificationsSent: model.Int(notify.Count),
				Persisted:         model.Bool(false),
				FallbackUsed:      model.Bool(true),
			},
			Error: "warning: submission backup failed: " + persist.Reason,
		}, model.OutcomePersistFailed

	case BranchNotifyFailed:
		s.logger.Warn("Submission persisted but notifications failed",
			slog.String("id", persist.ID), slog.String("reason", notify.Reason))
		return model.SubmissionResult{
			Success: true,
			Message: "Thank you! Your message has been saved and our team will get back to you shortly.",
			Data: model.ResultData{
				SubmissionID:      persist.ID,
				NotificationsSent: model.Int(0),
				Persisted:         model.Bool(true),
				FallbackUsed:      model.Bool(true),
			},
			Error: "warning: notifications failed: " + notify.Reason,
		}, model.OutcomeNotifyFailed
	}

	s.logger.Warn("Both channels failed, retrying notification",
		slog.String("persist_reason", persist.Reason), slog.String("notify_reason", notify.Reason))
	return s.fallback(ctx, clean, persist.Reason)
}

// attemptBoth dispatches both channels concurrently and waits for both to settle.
// Neither attempt is cancelled by the other's result.
func (s *contactService) attemptBoth(ctx context.Context, sub model.Submission) (persist, notify model.ChannelOutcome) {
	var g errgroup.Group
	g.Go(func() (err error) {
		defer capturePanic(&err)
		persist = s.deps.Persistence.Submit(ctx, sub)
		return nil
	})
	g.Go(func() (err error) {
		defer capturePanic(&err)
		notify = s.deps.Notification.Send(ctx, sub)
		return nil
	})
	if err := g.Wait(); err != nil {
		var pe *panicError
		if errors.As(err, &pe) {
			panic(pe.value)
		}
		panic(err)
	}
	return persist, notify
}

func capturePanic(err *error) {
	if r := recover(); r != nil {
		*err = &panicError{value: r}
	}
}

func (s *contactService) fallback(ctx context.Context, sub model.Submission, persistReason string) (model.SubmissionResult, string) {
	ctx, span := s.tracer.StartInternalSpan(ctx, "fallback")
	defer span.End()

	retry := s.sendGuarded(ctx, sub)
	metrics.FallbackAttempts.WithLabelValues(metrics.Result(retry.Success)).Inc()

	if retry.Success {
		s.logger.Warn("Fallback notification delivered, submission not persisted", slog.Int("notifications", retry.Count))
		return model.SubmissionResult{
			Success: true,
			Message: fmt.Sprintf("Your message has been sent to our team, but it could not be saved on our side. "+
				"If you do not hear back soon, please contact %s.", s.opts.SupportEmail),
			Data: model.ResultData{
				NotificationsSent: model.Int(retry.Count),
				Persisted:         model.Bool(false),
				FallbackUsed:      model.Bool(true),
			},
			Error: "warning: submission backup failed: " + persistReason,
		}, model.OutcomeFallbackDelivered
	}

	s.tracer.RecordError(span, errors.New(retry.Reason))
	s.logger.Error("Fallback notification failed", slog.String("reason", retry.Reason))
	return model.SubmissionResult{
		Success: false,
		Message: fmt.Sprintf("We could not process your message right now. Please email us directly at %s.", s.opts.SupportEmail),
		Data: model.ResultData{
			NotificationsSent: model.Int(0),
			Persisted:         model.Bool(false),
			FallbackUsed:      model.Bool(true),
		},
		Error: retry.Reason,
	}, model.OutcomeFailed
}

// recoverUnexpected handles a defect that escaped the normal flow: one more
// notification attempt on the original input, then a generic failure.
func (s *contactService) recoverUnexpected(ctx context.Context, raw model.Submission, r any) (model.SubmissionResult, string) {
	cause := fmt.Sprint(r)
	s.logger.Error("Unexpected error while processing submission", slog.String("error", cause))

	if s.deps.Notification != nil && !s.opts.Simulate {
		retry := s.sendGuarded(context.WithoutCancel(ctx), raw)
		metrics.FallbackAttempts.WithLabelValues(metrics.Result(retry.Success)).Inc()
		if retry.Success {
			return model.SubmissionResult{
				Success: true,
				Message: fmt.Sprintf("Your message has been sent to our team, but it could not be saved on our side. "+
					"If you do not hear back soon, please contact %s.", s.opts.SupportEmail),
				Data: model.ResultData{
					NotificationsSent: model.Int(retry.Count),
					Persisted:         model.Bool(false),
					FallbackUsed:      model.Bool(true),
				},
				Error: "warning: unexpected error: " + cause,
			}, model.OutcomeFallbackDelivered
		}
		s.logger.Error("Fallback after unexpected error failed", slog.String("reason", retry.Reason))
	}

	return s.unexpectedFailure(cause), model.OutcomeUnexpected
}

func (s *contactService) unexpectedFailure(cause string) model.SubmissionResult {
	return model.SubmissionResult{
		Success: false,
		Message: fmt.Sprintf("An unexpected error occurred. Please try again later or email us directly at %s.", s.opts.SupportEmail),
		Error:   cause,
	}
}

// sendGuarded runs the notification channel, turning a panic into a failed outcome.
func (s *contactService) sendGuarded(ctx context.Context, sub model.Submission) (out model.ChannelOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = model.Failed(fmt.Sprintf("notification send panicked: %v", r))
		}
	}()
	return s.deps.Notification.Send(ctx, sub)
}

// simulate waits out the configured latency. A cancelled caller cuts the wait short;
// the result is the same synthetic success since nothing real was attempted.
func (s *contactService) simulate(ctx context.Context) model.SubmissionResult {
	timer := time.NewTimer(s.opts.SimulatedLatency)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	id := "sim-" + s.newID()
	s.logger.Info("Simulated submission", slog.String("id", id))
	return model.SubmissionResult{
		Success: true,
		Message: "Thank you! Your message has been received (simulation mode, nothing was sent).",
		Data: model.ResultData{
			SubmissionID:      id,
			NotificationsSent: model.Int(simulatedNotifications),
			Persisted:         model.Bool(true),
			FallbackUsed:      model.Bool(false),
		},
	}
}

// finish records the outcome and publishes the event. Event failures never change the result.
func (s *contactService) finish(ctx context.Context, span trace.Span, outcome string, result model.SubmissionResult) {
	fallbackUsed := result.Data.FallbackUsed != nil && *result.Data.FallbackUsed
	s.tracer.AddOutcomeAttributes(span, outcome, result.Data.SubmissionID, fallbackUsed)
	if !result.Success {
		s.tracer.RecordError(span, errors.New(result.Error))
	}
	metrics.SubmissionOutcomes.WithLabelValues(outcome).Inc()

	ev := model.SubmissionEvent{
		EventID:      s.newID(),
		SubmissionID: result.Data.SubmissionID,
		Outcome:      outcome,
		Success:      result.Success,
		Persisted:    result.Data.Persisted != nil && *result.Data.Persisted,
		FallbackUsed: fallbackUsed,
		Error:        result.Error,
		CreatedAt:    time.Now().UTC(),
	}
	if result.Data.NotificationsSent != nil {
		ev.NotificationsSent = *result.Data.NotificationsSent
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := s.deps.Events.Publish(pubCtx, ev); err != nil {
		s.logger.Warn("Failed to publish submission event", slog.String("outcome", outcome), slog.Any("error", err))
	}
}
