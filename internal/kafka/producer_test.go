package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samims/contactrelay/internal/config"
	"github.com/samims/contactrelay/internal/model"
	"github.com/samims/contactrelay/pkg/tracing"
)

func TestProducer_Publish(t *testing.T) {
	cfg := NewSaramaConfig(config.KafkaConfig{ClientID: "test"})
	mp := mocks.NewAsyncProducer(t, cfg)

	var got model.SubmissionEvent
	mp.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "contact.submissions", msg.Topic)
		raw, err := msg.Value.Encode()
		require.NoError(t, err)
		return json.Unmarshal(raw, &got)
	})

	p := NewProducer(mp, "contact.submissions", slog.Default(), tracing.NewTracer(tracing.GetTracer("test")))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	ev := model.SubmissionEvent{
		EventID:           "evt-1",
		SubmissionID:      "abc123",
		Outcome:           model.OutcomeComplete,
		Success:           true,
		Persisted:         true,
		NotificationsSent: 2,
		CreatedAt:         time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), ev))

	p.Close(context.Background())
	assert.Equal(t, ev, got)
}

func TestNewProducer_PanicsOnEmptyTopic(t *testing.T) {
	mp := mocks.NewAsyncProducer(t, NewSaramaConfig(config.KafkaConfig{}))
	defer mp.Close()

	assert.Panics(t, func() {
		NewProducer(mp, "", slog.Default(), tracing.NewTracer(tracing.GetTracer("test")))
	})
}
