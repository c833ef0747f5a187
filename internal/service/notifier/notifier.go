// Package notifier delivers run notifications through the one configured channel sink.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/target/backup-audit/internal/domain/model"
	apperrors "github.com/target/backup-audit/internal/errors"
	"github.com/target/backup-audit/internal/observability/notify"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink notify.Sink
}

// Options configures the notifier service.
type Options struct {
	Logger *slog.Logger
	Sink   SinkRegistration
	// Timeout bounds a whole delivery including sink retries. Zero means no extra bound.
	Timeout time.Duration
	RunID   string
	Now     func() time.Time
}

// Service hands a notification intent to the selected sink.
type Service struct {
	logger  *slog.Logger
	sink    SinkRegistration
	timeout time.Duration
	runID   string
	now     func() time.Time
}

// NewService constructs a notifier. A nil sink makes every Send fail with a delivery error.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "notifier")
	}

	sink := opts.Sink
	if sink.Name == "" {
		sink.Name = "sink"
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		logger:  logger,
		sink:    sink,
		timeout: opts.Timeout,
		runID:   opts.RunID,
		now:     now,
	}
}

// Send delivers the intent. Failures are returned as delivery errors and never retried here.
func (s *Service) Send(ctx context.Context, intent model.NotificationIntent) error {
	s.logger.InfoContext(ctx, "sending notification",
		"sink", s.sink.Name,
		"title", intent.Title,
		"message", intent.Message,
		"body", intent.Body,
	)

	if s.sink.Sink == nil {
		return apperrors.Delivery("no notification sink configured")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	payload := notify.Payload{
		Title:      intent.Title,
		Message:    intent.Message,
		Body:       intent.Body,
		Success:    intent.Success(),
		RunID:      s.runID,
		OccurredAt: s.now(),
	}

	if err := s.sink.Sink.Send(ctx, payload); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeDelivery, "deliver notification via %s", s.sink.Name)
	}

	s.logger.DebugContext(ctx, "notification delivered", "sink", s.sink.Name)
	return nil
}

// Enabled reports whether a sink is registered.
func (s *Service) Enabled() bool {
	return s.sink.Sink != nil
}

// SinkName returns the registered sink's name.
func (s *Service) SinkName() string {
	return s.sink.Name
}
