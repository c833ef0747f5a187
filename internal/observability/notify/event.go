package notify

import (
	"context"
	"strings"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityInfo     = "info"
)

// Payload captures the canonical data we emit for a run's pass/fail notification.
type Payload struct {
	Title      string
	Message    string
	Body       string
	Success    bool
	RunID      string
	OccurredAt time.Time
}

// Severity maps the outcome to a sink severity.
func (p Payload) Severity() string {
	if p.Success {
		return SeverityInfo
	}
	return SeverityCritical
}

// Text renders the message and body inside a markdown code fence.
func (p Payload) Text() string {
	return FencedText(p.Message, p.Body)
}

// Summary is the title followed by the first line of the message.
func (p Payload) Summary() string {
	first, _, _ := strings.Cut(strings.TrimSpace(p.Message), "\n")
	switch {
	case p.Title == "":
		return first
	case first == "":
		return p.Title
	default:
		return p.Title + ": " + first
	}
}

// FencedText wraps message and body in a ``` fence so channels render the table monospaced.
func FencedText(message, body string) string {
	var b strings.Builder
	b.Grow(len(message) + len(body) + 10)
	b.WriteString("```\n")
	b.WriteString(message)
	b.WriteByte('\n')
	b.WriteString(body)
	b.WriteString("\n```")
	return b.String()
}

// Sink describes a destination capable of delivering run notifications.
type Sink interface {
	Send(ctx context.Context, payload Payload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload Payload) error

// Send implements the Sink interface.
func (f SinkFunc) Send(ctx context.Context, payload Payload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
