// Package notifier talks to the mail relay that emails staff and the submitter.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	appErr "github.com/samims/contactrelay/internal/errors"
	"github.com/samims/contactrelay/internal/model"
)

// Recipients addressed for every submission.
var defaultRecipients = []string{"staff", "submitter"}

// Relay sends notifications for a submission.
type Relay interface {
	Notify(ctx context.Context, s model.Submission) (int, error)
	Ping(ctx context.Context) error
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type httpRelay struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

// NewHTTPRelay builds a Relay over the relay's JSON API.
func NewHTTPRelay(cfg Config, log *slog.Logger) (Relay, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("missing relay base url")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &httpRelay{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With("layer", "notifier", "component", "httpRelay"),
	}, nil
}

type notifyRequest struct {
	Submission model.Submission `json:"submission"`
	Recipients []string         `json:"recipients"`
}

// notifyResponse carries the relay's own verdict; a 2xx alone is not delivery.
type notifyResponse struct {
	Success bool   `json:"success"`
	Sent    int    `json:"sent"`
	Error   string `json:"error,omitempty"`
}

// HTTPError is a non-2xx answer from the relay.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 512 {
		msg = msg[:512] + "..."
	}
	return fmt.Sprintf("relay http %d: %s", e.StatusCode, msg)
}

// Notify returns how many notifications the relay sent.
func (r *httpRelay) Notify(ctx context.Context, s model.Submission) (int, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(notifyRequest{Submission: s, Recipients: defaultRecipients}); err != nil {
		return 0, fmt.Errorf("encode notify request: %w", err)
	}

	raw, err := r.do(ctx, http.MethodPost, "/v1/notify", &buf)
	if err != nil {
		return 0, err
	}

	var resp notifyResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("decode notify response: %w", err)
	}
	if !resp.Success {
		reason := strings.TrimSpace(resp.Error)
		if reason == "" {
			reason = "no reason given"
		}
		return 0, fmt.Errorf("%w: %s", appErr.ErrRelayRejected, reason)
	}

	r.log.Debug("Relay accepted notification", slog.Int("sent", resp.Sent))
	return resp.Sent, nil
}

// Ping checks the relay's health endpoint.
func (r *httpRelay) Ping(ctx context.Context) error {
	_, err := r.do(ctx, http.MethodGet, "/healthz", nil)
	return err
}

func (r *httpRelay) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read relay response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
