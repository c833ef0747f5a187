package pagerduty

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/target/backup-audit/internal/observability/notify"
)

// APIEndpoint is the PagerDuty Events API v2 ingest URL.
const APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

// Config captures runtime configuration for the PagerDuty sink.
type Config struct {
	RoutingKey string
	Source     string
	Component  string
	Endpoint   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client publishes events via PagerDuty's Events API v2.
type Client struct {
	routingKey string
	source     string
	component  string
	endpoint   string
	transport  *notify.Transport
	now        func() time.Time
}

// NewClient constructs a PagerDuty events client from config. Callers must provide a routing key.
func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.RoutingKey)
	if key == "" {
		return nil, errors.New("pagerduty routing key is required")
	}

	return &Client{
		routingKey: key,
		source:     fallbackString(cfg.Source, "backup-audit"),
		component:  fallbackString(cfg.Component, "backups"),
		endpoint:   fallbackString(cfg.Endpoint, APIEndpoint),
		transport:  notify.NewTransport("pagerduty", cfg.Client, cfg.Timeout, cfg.RetryLimit),
		now:        time.Now,
	}, nil
}

// Send submits a trigger event to PagerDuty. Passing runs are sent with info severity.
func (c *Client) Send(ctx context.Context, payload notify.Payload) error {
	body, err := json.Marshal(c.buildEvent(payload))
	if err != nil {
		return fmt.Errorf("encode pagerduty payload: %w", err)
	}

	return c.transport.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

func (c *Client) buildEvent(payload notify.Payload) map[string]any {
	occurredAt := payload.OccurredAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = c.now().UTC()
	}

	custom := map[string]any{
		"message": payload.Message,
		"report":  payload.Body,
		"run_id":  payload.RunID,
		"success": payload.Success,
	}

	event := map[string]any{
		"routing_key":  c.routingKey,
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":        fallbackString(payload.Summary(), "backup audit"),
			"severity":       payload.Severity(),
			"source":         c.source,
			"component":      c.component,
			"timestamp":      occurredAt.Format(time.RFC3339),
			"custom_details": custom,
		},
	}
	if payload.RunID != "" {
		event["dedup_key"] = "backup-audit:" + payload.RunID
	}
	return event
}

func fallbackString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
