package core

import (
	"context"

	"github.com/target/backup-audit/internal/domain/model"
)

// This file contains the port definitions (hexagonal architecture) consumed by the audit pipeline.
// Adapters in internal/data and internal/service/notifier implement them; tests use the gomock
// doubles in internal/mocks.

// RecordStore supplies today's backup-job records.
//
// Implementations must fail with an errors.ErrCodeConnection AppError when the store cannot be
// reached or refuses the credentials, and with errors.ErrCodeQuery when the store is reachable
// but the query fails. Any connection opened for the query is released before returning.
type RecordStore interface {
	QueryToday(ctx context.Context) (model.RecordSet, error)
}

// ExpectationSource supplies the set of job names expected to complete today.
// Failures are reported as errors.ErrCodeRead AppErrors.
type ExpectationSource interface {
	Load(ctx context.Context) (model.JobSet, error)
}

// Notifier delivers a single titled message with a body through the configured channel.
// Failures are reported as errors.ErrCodeDelivery AppErrors.
type Notifier interface {
	Send(ctx context.Context, intent model.NotificationIntent) error
}
