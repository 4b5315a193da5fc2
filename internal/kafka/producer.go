package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/samims/contactrelay/internal/config"
	"github.com/samims/contactrelay/internal/model"
	"github.com/samims/contactrelay/pkg/tracing"
)

// EventProducer publishes submission outcome events
type EventProducer interface {
	Start(ctx context.Context)
	Publish(ctx context.Context, ev model.SubmissionEvent) error
	Close(ctx context.Context)
}

type producer struct {
	asyncProducer sarama.AsyncProducer
	topic         string
	log           *slog.Logger
	wg            sync.WaitGroup
	closeOnce     sync.Once
	tracer        *tracing.Tracer
}

// NewSaramaConfig returns the producer configuration used in production.
func NewSaramaConfig(cfg config.KafkaConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.ClientID = cfg.ClientID
	return saramaConfig
}

// NewProducer wraps an AsyncProducer. It panics on nil dependencies or an empty topic.
func NewProducer(asyncProducer sarama.AsyncProducer, topic string, log *slog.Logger, tracer *tracing.Tracer) EventProducer {
	if asyncProducer == nil || log == nil || tracer == nil {
		panic("NewProducer: nil dependencies provided")
	}
	if topic == "" {
		panic("NewProducer: topic must not be empty")
	}
	return &producer{
		asyncProducer: asyncProducer,
		topic:         topic,
		log:           log.With("layer", "kafka", "component", "eventProducer"),
		tracer:        tracer,
	}
}

// Start launches background handlers for success and error channels
func (p *producer) Start(ctx context.Context) {
	p.log.Info("Starting Kafka producer handlers", slog.String("topic", p.topic))
	p.wg.Add(2)
	go p.handleSuccess(ctx)
	go p.handleErrors(ctx)
}

func (p *producer) handleSuccess(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case msg, ok := <-p.asyncProducer.Successes():
			if !ok {
				return
			}
			key, _ := msg.Key.Encode()
			p.log.Debug("Event delivered",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("key", string(key)))
		case <-ctx.Done():
			return
		}
	}
}

func (p *producer) handleErrors(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case err, ok := <-p.asyncProducer.Errors():
			if !ok {
				return
			}
			p.log.Error("Event delivery failed",
				slog.String("topic", err.Msg.Topic),
				slog.Any("error", err.Err))
		case <-ctx.Done():
			return
		}
	}
}

// Publish queues an event with the trace context in its headers
func (p *producer) Publish(ctx context.Context, ev model.SubmissionEvent) error {
	ctx, span := p.tracer.StartClientSpan(ctx, "KafkaPublish")
	defer span.End()

	data, err := json.Marshal(ev)
	if err != nil {
		p.tracer.RecordError(span, err)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(ev.EventID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
		Headers:   tracing.InjectTraceContext(ctx, nil),
	}

	select {
	case p.asyncProducer.Input() <- msg:
		p.tracer.AddKafkaAttributes(span, p.topic, "publish")
		p.log.Debug("Event queued",
			slog.String("event_id", ev.EventID),
			slog.String("outcome", ev.Outcome))
		return nil
	case <-ctx.Done():
		p.tracer.RecordError(span, ctx.Err())
		return ctx.Err()
	}
}

// Close shuts down the producer and waits for the handlers
func (p *producer) Close(_ context.Context) {
	p.closeOnce.Do(func() {
		p.log.Info("Closing Kafka producer...")
		p.asyncProducer.AsyncClose()
		p.wg.Wait()
		p.log.Info("Kafka producer closed")
	})
}

type noopProducer struct {
	log *slog.Logger
}

// NewNoopProducer is used when no brokers are configured.
func NewNoopProducer(log *slog.Logger) EventProducer {
	return &noopProducer{log: log.With("layer", "kafka", "component", "noopProducer")}
}

func (n *noopProducer) Start(context.Context) {
	n.log.Info("Kafka brokers not configured, submission events are dropped")
}

func (n *noopProducer) Publish(context.Context, model.SubmissionEvent) error { return nil }

func (n *noopProducer) Close(context.Context) {}
