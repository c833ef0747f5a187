package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/target/backup-audit/internal/core"
	"github.com/target/backup-audit/internal/domain/model"
	apperrors "github.com/target/backup-audit/internal/errors"
	"github.com/target/backup-audit/internal/observability/notify"
)

var _ core.Notifier = (*Service)(nil)

func TestServiceSend(t *testing.T) {
	ctx := context.Background()
	occurred := time.Date(2026, 10, 15, 6, 0, 0, 0, time.UTC)

	var received []notify.Payload
	svc := NewService(Options{
		RunID: "run-1",
		Now:   func() time.Time { return occurred },
		Sink: SinkRegistration{
			Name: "capture",
			Sink: notify.SinkFunc(func(_ context.Context, payload notify.Payload) error {
				received = append(received, payload)
				return nil
			}),
		},
	})

	err := svc.Send(ctx, model.NotificationIntent{
		Title:   "backups",
		Message: model.MessageSuccess,
		Body:    "+--+",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(received))
	}
	got := received[0]
	if !got.Success || got.RunID != "run-1" || !got.OccurredAt.Equal(occurred) {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.Title != "backups" || got.Body != "+--+" {
		t.Fatalf("intent fields not carried: %+v", got)
	}
}

func TestServiceWrapsSinkFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(Options{
		Sink: SinkRegistration{
			Name: "zulip",
			Sink: notify.SinkFunc(func(context.Context, notify.Payload) error { return boom }),
		},
	})

	err := svc.Send(context.Background(), model.NotificationIntent{Message: model.MessageFailure})
	if !apperrors.IsDelivery(err) {
		t.Fatalf("expected delivery error, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestServiceWithoutSink(t *testing.T) {
	svc := NewService(Options{})
	if svc.Enabled() {
		t.Fatal("expected Enabled() to be false when no sink registered")
	}
	if err := svc.Send(context.Background(), model.NotificationIntent{}); !apperrors.IsDelivery(err) {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestServiceAppliesTimeout(t *testing.T) {
	svc := NewService(Options{
		Timeout: 20 * time.Millisecond,
		Sink: SinkRegistration{
			Name: "slow",
			Sink: notify.SinkFunc(func(ctx context.Context, _ notify.Payload) error {
				<-ctx.Done()
				return ctx.Err()
			}),
		},
	})

	err := svc.Send(context.Background(), model.NotificationIntent{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if svc.SinkName() != "slow" {
		t.Fatalf("unexpected sink name %q", svc.SinkName())
	}
}
