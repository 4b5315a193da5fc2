package model

// SubmissionResult is what the caller gets back for every submission attempt.
type SubmissionResult struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Data    ResultData `json:"data"`
	Error   string     `json:"error,omitempty"`

	// Outcome is the classification behind the result. Not serialized.
	Outcome string `json:"-"`
}

// ResultData holds the optional result fields. Nil pointers are omitted on the wire.
type ResultData struct {
	SubmissionID      string `json:"submissionId,omitempty"`
	NotificationsSent *int   `json:"notificationsSent,omitempty"`
	Persisted         *bool  `json:"persisted,omitempty"`
	FallbackUsed      *bool  `json:"fallbackUsed,omitempty"`
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
