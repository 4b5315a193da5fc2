package model

// Overall health states.
const (
	HealthHealthy  = "healthy"
	HealthDegraded = "degraded"
	HealthDown     = "down"
)

// SystemHealth is derived at query time from both channel checks.
type SystemHealth struct {
	Persistence  bool   `json:"persisted"`
	Notification bool   `json:"notified"`
	Overall      string `json:"overall"`
	// Simulated is set when no channel is wired and submissions are simulated.
	Simulated bool `json:"simulated,omitempty"`
}

// NewSystemHealth derives the overall state from the two channel flags.
func NewSystemHealth(persistence, notification bool) SystemHealth {
	overall := HealthDown
	switch {
	case persistence && notification:
		overall = HealthHealthy
	case persistence || notification:
		overall = HealthDegraded
	}
	return SystemHealth{Persistence: persistence, Notification: notification, Overall: overall}
}
