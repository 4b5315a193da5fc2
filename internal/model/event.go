package model

import "time"

// SubmissionEvent is published once per processed submission.
// This shall match the message model consumed by the staff tooling.
type SubmissionEvent struct {
	EventID           string    `json:"event_id"`
	SubmissionID      string    `json:"submission_id,omitempty"`
	Outcome           string    `json:"outcome"`
	Success           bool      `json:"success"`
	Persisted         bool      `json:"persisted"`
	FallbackUsed      bool      `json:"fallback_used"`
	NotificationsSent int       `json:"notifications_sent"`
	Error             string    `json:"error,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
