package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	AttrChannelName       = "contact.channel"
	AttrChannelSuccess    = "contact.channel.success"
	AttrChannelDurationMs = "contact.channel.duration_ms"

	AttrOutcome      = "contact.outcome"
	AttrSubmissionID = "contact.submission_id"
	AttrFallbackUsed = "contact.fallback_used"

	AttrMessagingSystem      = "messaging.system"
	AttrMessagingDestination = "messaging.destination"
	AttrMessagingOperation   = "messaging.operation"
)

// Tracer wraps an OpenTelemetry tracer with the span helpers used across the service.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new tracer instance
func NewTracer(tracer trace.Tracer) *Tracer {
	return &Tracer{
		tracer: tracer,
	}
}

// StartServerSpan creates a new server span
func (t *Tracer) StartServerSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.startSpan(ctx, operation, trace.SpanKindServer, attrs...)
}

// StartInternalSpan creates a span for in-process work
func (t *Tracer) StartInternalSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.startSpan(ctx, operation, trace.SpanKindInternal, attrs...)
}

// StartClientSpan creates a new client span
func (t *Tracer) StartClientSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.startSpan(ctx, operation, trace.SpanKindClient, attrs...)
}

func (t *Tracer) startSpan(ctx context.Context, operation string, kind trace.SpanKind, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, operation,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(kind),
	)
}

// RecordError records an error on the span
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// AddChannelAttributes records the result of one channel attempt
func (t *Tracer) AddChannelAttributes(span trace.Span, channel string, success bool, duration time.Duration) {
	span.SetAttributes(
		attribute.String(AttrChannelName, channel),
		attribute.Bool(AttrChannelSuccess, success),
		attribute.Int64(AttrChannelDurationMs, duration.Milliseconds()),
	)
}

// AddOutcomeAttributes records the classified submission outcome
func (t *Tracer) AddOutcomeAttributes(span trace.Span, outcome, submissionID string, fallbackUsed bool) {
	span.SetAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.String(AttrSubmissionID, submissionID),
		attribute.Bool(AttrFallbackUsed, fallbackUsed),
	)
}

// AddKafkaAttributes adds Kafka publish attributes
func (t *Tracer) AddKafkaAttributes(span trace.Span, topic, operation string) {
	span.SetAttributes(
		attribute.String(AttrMessagingSystem, "kafka"),
		attribute.String(AttrMessagingDestination, topic),
		attribute.String(AttrMessagingOperation, operation),
	)
}

// GetTracer returns the global tracer
func GetTracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
