package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contact_http_request_duration_seconds",
			Help:    "Histogram of response durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// SubmissionOutcomes counts classified submission outcomes
	SubmissionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Number of processed submissions by outcome",
		},
		[]string{"outcome"},
	)

	ChannelAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_channel_attempts_total",
			Help: "Channel attempts by channel and result",
		},
		[]string{"channel", "result"},
	)

	ChannelDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contact_channel_duration_seconds",
			Help:    "Duration of channel attempts",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"channel"},
	)

	FallbackAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_fallback_total",
			Help: "Fallback notification attempts by result",
		},
		[]string{"result"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_rate_limited_total",
			Help: "Submissions rejected by the rate limiter",
		},
	)
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequests, RequestDuration,
			SubmissionOutcomes, ChannelAttempts, ChannelDuration, FallbackAttempts,
			RateLimited,
		)
	})
}

// Result maps a success flag to a label value.
func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
