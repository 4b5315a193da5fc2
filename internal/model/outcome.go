package model

const (
	ChannelPersistence  = "persistence"
	ChannelNotification = "notification"
)

// ChannelOutcome is the typed result of one channel attempt.
// ID is set by the persistence channel, Count by the notification channel.
type ChannelOutcome struct {
	Success bool
	ID      string
	Count   int
	Reason  string
}

// Succeeded builds a successful outcome.
func Succeeded(id string, count int) ChannelOutcome {
	return ChannelOutcome{Success: true, ID: id, Count: count}
}

// Failed builds a failed outcome carrying reason.
func Failed(reason string) ChannelOutcome {
	return ChannelOutcome{Reason: reason}
}

// Classified outcomes, used for metrics and events.
const (
	OutcomeComplete          = "complete"
	OutcomePersistFailed     = "persist_failed"
	OutcomeNotifyFailed      = "notify_failed"
	OutcomeFallbackDelivered = "fallback_delivered"
	OutcomeFailed            = "failed"
	OutcomeInvalid           = "invalid"
	OutcomeSimulated         = "simulated"
	OutcomeUnexpected        = "unexpected"
)
