package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samims/contactrelay/internal/kafka"
	"github.com/samims/contactrelay/internal/model"
	"github.com/samims/contactrelay/internal/sanitizer"
	"github.com/samims/contactrelay/internal/storage"
	"github.com/samims/contactrelay/internal/validator"
)

func validInput() model.Submission {
	return model.Submission{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Message: "I would like a quote.",
		Service: "consulting",
	}
}

func newTestService(t *testing.T, p PersistenceChannel, n NotificationChannel, events kafka.EventProducer, opts Options) *contactService {
	t.Helper()
	if events == nil {
		events = kafka.NewNoopProducer(slog.Default())
	}
	if opts.SupportEmail == "" {
		opts.SupportEmail = "help@example.com"
	}
	svc, err := NewContactService(Deps{
		Validator:    validator.New(nil, slog.Default()),
		Sanitizer:    sanitizer.New(),
		Persistence:  p,
		Notification: n,
		Events:       events,
	}, opts, slog.Default())
	require.NoError(t, err)
	return svc.(*contactService)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		persisted, notified bool
		want                Branch
	}{
		{true, true, BranchComplete},
		{false, true, BranchPersistFailed},
		{true, false, BranchNotifyFailed},
		{false, false, BranchFallback},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.persisted, tt.notified), "persisted=%v notified=%v", tt.persisted, tt.notified)
	}
}

func Test_contactService_Process_ValidationFailure(t *testing.T) {
	p := NewMockPersistenceChannel(t)
	n := NewMockNotificationChannel(t)
	svc := newTestService(t, p, n, nil, Options{})

	got := svc.Process(context.Background(), model.Submission{Email: "ada@example.com"})

	assert.False(t, got.Success)
	assert.Equal(t, "name is required; message is required", got.Error)
	assert.Contains(t, got.Message, got.Error)
	assert.Equal(t, model.ResultData{}, got.Data)
	assert.Equal(t, model.OutcomeInvalid, got.Outcome)
	p.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

// Table Driven Test Pattern used
func Test_contactService_Process_Outcomes(t *testing.T) {
	in := validInput()

	tests := []struct {
		name         string
		persist      model.ChannelOutcome
		notify       []model.ChannelOutcome
		wantSuccess  bool
		wantData     model.ResultData
		wantError    string
		wantErrorHas string
	}{
		{
			name:        "persisted and notified",
			persist:     model.Succeeded("abc123", 0),
			notify:      []model.ChannelOutcome{model.Succeeded("", 2)},
			wantSuccess: true,
			wantData: model.ResultData{
				SubmissionID:      "abc123",
				NotificationsSent: model.Int(2),
				Persisted:         model.Bool(true),
				FallbackUsed:      model.Bool(false),
			},
		},
		{
			name:        "notified but not persisted",
			persist:     model.Failed("persistence submit: connection refused"),
			notify:      []model.ChannelOutcome{model.Succeeded("", 2)},
			wantSuccess: true,
			wantData: model.ResultData{
				NotificationsSent: model.Int(2),
				Persisted:         model.Bool(false),
				FallbackUsed:      model.Bool(true),
			},
			wantErrorHas: "connection refused",
		},
		{
			name:        "persisted but not notified",
			persist:     model.Succeeded("abc123", 0),
			notify:      []model.ChannelOutcome{model.Failed("notification send: relay http 502")},
			wantSuccess: true,
			wantData: model.ResultData{
				SubmissionID:      "abc123",
				NotificationsSent: model.Int(0),
				Persisted:         model.Bool(true),
				FallbackUsed:      model.Bool(true),
			},
			wantErrorHas: "relay http 502",
		},
		{
			name:    "both failed, fallback delivered",
			persist: model.Failed("persistence submit: timed out"),
			notify: []model.ChannelOutcome{
				model.Failed("notification send: timed out"),
				model.Succeeded("", 1),
			},
			wantSuccess: true,
			wantData: model.ResultData{
				NotificationsSent: model.Int(1),
				Persisted:         model.Bool(false),
				FallbackUsed:      model.Bool(true),
			},
			wantErrorHas: "persistence submit: timed out",
		},
		{
			name:    "both failed, fallback failed",
			persist: model.Failed("persistence submit: timed out"),
			notify: []model.ChannelOutcome{
				model.Failed("notification send: timed out"),
				model.Failed("notification send: relay rejected notification: quota"),
			},
			wantSuccess: false,
			wantData: model.ResultData{
				NotificationsSent: model.Int(0),
				Persisted:         model.Bool(false),
				FallbackUsed:      model.Bool(true),
			},
			wantError: "notification send: relay rejected notification: quota",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewMockPersistenceChannel(t)
			p.On("Submit", mock.Anything, in).Return(tt.persist).Once()

			n := NewMockNotificationChannel(t)
			for _, o := range tt.notify {
				n.On("Send", mock.Anything, in).Return(o).Once()
			}

			svc := newTestService(t, p, n, nil, Options{})
			got := svc.Process(context.Background(), in)

			assert.Equal(t, tt.wantSuccess, got.Success)
			assert.Equal(t, tt.wantData, got.Data)
			assert.NotEmpty(t, got.Message)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got.Error)
				assert.Contains(t, got.Message, "help@example.com")
			}
			if tt.wantErrorHas != "" {
				assert.Contains(t, got.Error, tt.wantErrorHas)
			}
			if tt.wantError == "" && tt.wantErrorHas == "" {
				assert.Empty(t, got.Error)
			}
			// fallback happens iff both initial attempts failed
			n.AssertNumberOfCalls(t, "Send", len(tt.notify))
			p.AssertNumberOfCalls(t, "Submit", 1)
		})
	}
}

func Test_contactService_Process_ChannelsReceiveSanitizedCopy(t *testing.T) {
	raw := validInput()
	raw.Name = "  <b>Ada</b>   Lovelace "
	raw.Email = "Ada@Example.com"

	want := validInput()

	p := NewMockPersistenceChannel(t)
	p.On("Submit", mock.Anything, want).Return(model.Succeeded("abc123", 0))
	n := NewMockNotificationChannel(t)
	n.On("Send", mock.Anything, want).Return(model.Succeeded("", 2))

	got := newTestService(t, p, n, nil, Options{}).Process(context.Background(), raw)
	assert.True(t, got.Success)
}

func Test_contactService_Process_ChannelsRunConcurrently(t *testing.T) {
	in := validInput()
	release := make(chan struct{})

	p := NewMockPersistenceChannel(t)
	p.On("Submit", mock.Anything, in).Return(func(context.Context, model.Submission) model.ChannelOutcome {
		<-release
		return model.Succeeded("abc123", 0)
	})
	n := NewMockNotificationChannel(t)
	n.On("Send", mock.Anything, in).Return(func(context.Context, model.Submission) model.ChannelOutcome {
		// persistence is still blocked here; only a concurrent dispatch reaches this point
		close(release)
		return model.Succeeded("", 2)
	})

	done := make(chan model.SubmissionResult, 1)
	go func() { done <- newTestService(t, p, n, nil, Options{}).Process(context.Background(), in) }()

	select {
	case got := <-done:
		assert.True(t, got.Success)
		assert.Equal(t, "abc123", got.Data.SubmissionID)
	case <-time.After(2 * time.Second):
		t.Fatal("channels were not dispatched concurrently")
	}
}

func Test_contactService_Process_Simulate(t *testing.T) {
	p := NewMockPersistenceChannel(t)
	n := NewMockNotificationChannel(t)
	svc := newTestService(t, p, n, nil, Options{Simulate: true, SimulatedLatency: 10 * time.Millisecond})
	svc.newID = func() string { return "fixed" }

	start := time.Now()
	got := svc.Process(context.Background(), validInput())

	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.True(t, got.Success)
	assert.Equal(t, model.ResultData{
		SubmissionID:      "sim-fixed",
		NotificationsSent: model.Int(2),
		Persisted:         model.Bool(true),
		FallbackUsed:      model.Bool(false),
	}, got.Data)
	p.AssertNumberOfCalls(t, "Submit", 0)
	n.AssertNumberOfCalls(t, "Send", 0)
}

func Test_contactService_Process_SimulateStillValidates(t *testing.T) {
	svc := newTestService(t, nil, nil, nil, Options{Simulate: true})

	got := svc.Process(context.Background(), model.Submission{})
	assert.False(t, got.Success)
	assert.Equal(t, "name is required; email is required; message is required", got.Error)
}

func Test_contactService_Process_UnexpectedPanic(t *testing.T) {
	raw := validInput()
	raw.Name = "  Ada  Lovelace" // sanitizing changes this; the guard must use the original

	clean := validInput()

	tests := []struct {
		name        string
		retry       model.ChannelOutcome
		wantSuccess bool
	}{
		{name: "fallback delivers", retry: model.Succeeded("", 1), wantSuccess: true},
		{name: "fallback fails", retry: model.Failed("notification send: relay down"), wantSuccess: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewMockPersistenceChannel(t)
			p.On("Submit", mock.Anything, clean).Panic("nil map write")

			n := NewMockNotificationChannel(t)
			n.On("Send", mock.Anything, clean).Return(model.Succeeded("", 2)).Once()
			n.On("Send", mock.Anything, raw).Return(tt.retry).Once()

			got := newTestService(t, p, n, nil, Options{}).Process(context.Background(), raw)

			assert.Equal(t, tt.wantSuccess, got.Success)
			if tt.wantSuccess {
				assert.Equal(t, model.ResultData{
					NotificationsSent: model.Int(1),
					Persisted:         model.Bool(false),
					FallbackUsed:      model.Bool(true),
				}, got.Data)
				return
			}
			assert.Equal(t, "nil map write", got.Error)
			assert.Equal(t, model.OutcomeUnexpected, got.Outcome)
			assert.True(t, strings.Contains(got.Message, "unexpected error"))
		})
	}
}

func Test_contactService_Process_PublishesEvent(t *testing.T) {
	in := validInput()
	p := NewMockPersistenceChannel(t)
	p.On("Submit", mock.Anything, in).Return(model.Succeeded("abc123", 0))
	n := NewMockNotificationChannel(t)
	n.On("Send", mock.Anything, in).Return(model.Succeeded("", 2))

	events := kafka.NewMockEventProducer(t)
	events.On("Publish", mock.Anything, mock.MatchedBy(func(ev model.SubmissionEvent) bool {
		return ev.Outcome == model.OutcomeComplete &&
			ev.SubmissionID == "abc123" &&
			ev.NotificationsSent == 2 &&
			ev.Persisted && !ev.FallbackUsed && ev.Success
	})).Return(errors.New("broker unavailable")).Once()

	got := newTestService(t, p, n, events, Options{}).Process(context.Background(), in)

	assert.True(t, got.Success, "event failures must not change the result")
	assert.Equal(t, model.OutcomeComplete, got.Outcome)
}

func TestNewContactService_RequiresChannels(t *testing.T) {
	_, err := NewContactService(Deps{
		Validator: validator.New(nil, slog.Default()),
		Sanitizer: sanitizer.New(),
		Events:    kafka.NewNoopProducer(slog.Default()),
	}, Options{}, slog.Default())
	assert.Error(t, err)
}

func Test_contactService_Process_BlankRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *model.Submission)
		want   string
	}{
		{name: "whitespace name", mutate: func(s *model.Submission) { s.Name = "   " }, want: "name is required"},
		{name: "empty markup name", mutate: func(s *model.Submission) { s.Name = "<b></b>" }, want: "name is required"},
		{name: "markup around whitespace", mutate: func(s *model.Submission) { s.Name = "<i> </i>" }, want: "name is required"},
		{name: "whitespace message", mutate: func(s *model.Submission) { s.Message = "\n\t " }, want: "message is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewMockPersistenceChannel(t)
			n := NewMockNotificationChannel(t)
			in := validInput()
			tt.mutate(&in)

			got := newTestService(t, p, n, nil, Options{}).Process(context.Background(), in)

			assert.False(t, got.Success)
			assert.Equal(t, tt.want, got.Error)
			assert.Equal(t, model.OutcomeInvalid, got.Outcome)
			p.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
			n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

type failingValidator struct{ err error }

func (f failingValidator) Validate(context.Context, model.Submission) error { return f.err }

func Test_contactService_Process_ValidatorError(t *testing.T) {
	p := NewMockPersistenceChannel(t)
	n := NewMockNotificationChannel(t)
	svc, err := NewContactService(Deps{
		Validator:    failingValidator{err: errors.New("validator misconfigured")},
		Sanitizer:    sanitizer.New(),
		Persistence:  p,
		Notification: n,
		Events:       kafka.NewNoopProducer(slog.Default()),
	}, Options{SupportEmail: "help@example.com"}, slog.Default())
	require.NoError(t, err)

	got := svc.Process(context.Background(), validInput())

	assert.False(t, got.Success)
	assert.Equal(t, model.OutcomeUnexpected, got.Outcome)
	assert.Equal(t, "validator misconfigured", got.Error)
	assert.Contains(t, got.Message, "help@example.com")
	// unvalidated input never reaches a channel, not even the fallback
	p.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func Test_contactService_Process_CallerCancelledDuringAttempt(t *testing.T) {
	in := validInput()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewMockPersistenceChannel(t)
	p.On("Submit", mock.Anything, in).Return(func(chCtx context.Context, _ model.Submission) model.ChannelOutcome {
		cancel()
		if chCtx.Err() != nil {
			return model.Failed("persistence submit: " + chCtx.Err().Error())
		}
		return model.Succeeded("abc123", 0)
	})
	n := NewMockNotificationChannel(t)
	n.On("Send", mock.Anything, in).Return(func(chCtx context.Context, _ model.Submission) model.ChannelOutcome {
		<-ctx.Done()
		if chCtx.Err() != nil {
			return model.Failed("notification send: " + chCtx.Err().Error())
		}
		return model.Succeeded("", 2)
	})

	got := newTestService(t, p, n, nil, Options{}).Process(ctx, in)

	// an accepted submission is finished even when the caller goes away
	assert.True(t, got.Success)
	assert.Equal(t, model.OutcomeComplete, got.Outcome)
	assert.Equal(t, "abc123", got.Data.SubmissionID)
}

func Test_contactService_Process_SimulateCallerCancelled(t *testing.T) {
	svc := newTestService(t, nil, nil, nil, Options{Simulate: true, SimulatedLatency: time.Hour})
	svc.newID = func() string { return "fixed" }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan model.SubmissionResult, 1)
	go func() { done <- svc.Process(ctx, validInput()) }()

	select {
	case got := <-done:
		assert.True(t, got.Success)
		assert.Equal(t, model.OutcomeSimulated, got.Outcome)
		assert.Equal(t, "sim-fixed", got.Data.SubmissionID)
	case <-time.After(2 * time.Second):
		t.Fatal("simulated latency ignored the cancelled context")
	}
}

func Test_contactService_Process_HungChannelBoundedByTimeout(t *testing.T) {
	in := validInput()

	store := storage.NewMockSubmissionStorage(t)
	store.On("Save", mock.Anything, in).Return(func(ctx context.Context, _ model.Submission) (model.StoredSubmission, error) {
		<-ctx.Done()
		return model.StoredSubmission{}, ctx.Err()
	})
	n := NewMockNotificationChannel(t)
	n.On("Send", mock.Anything, in).Return(model.Succeeded("", 2)).Once()

	p := NewPersistenceChannel(store, 50*time.Millisecond, slog.Default())
	svc := newTestService(t, p, n, nil, Options{})

	start := time.Now()
	got := svc.Process(context.Background(), in)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, got.Success)
	assert.Equal(t, model.OutcomePersistFailed, got.Outcome)
	assert.Contains(t, got.Error, "timed out after 50ms")
}

func Test_contactService_Process_EventPublishIsBounded(t *testing.T) {
	in := validInput()
	p := NewMockPersistenceChannel(t)
	p.On("Submit", mock.Anything, in).Return(model.Succeeded("abc123", 0))
	n := NewMockNotificationChannel(t)
	n.On("Send", mock.Anything, in).Return(model.Succeeded("", 2))

	events := kafka.NewMockEventProducer(t)
	events.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= eventPublishTimeout
	}), mock.Anything).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := newTestService(t, p, n, events, Options{}).Process(ctx, in)

	assert.True(t, got.Success)
}
