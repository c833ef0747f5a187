// Package audit compares today's completed backups against the expected list and reports
// the verdict through a single notification.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/target/backup-audit/internal/core"
	"github.com/target/backup-audit/internal/domain/model"
	obserrors "github.com/target/backup-audit/internal/observability/errors"
	"github.com/target/backup-audit/internal/observability/metrics"
	"github.com/target/backup-audit/internal/observability/statsd"
)

// State is a pipeline stage.
type State string

// Pipeline states, in transition order.
const (
	StateInit      State = "init"
	StateQuerying  State = "querying"
	StateComparing State = "comparing"
	StateReporting State = "reporting"
	StateNotifying State = "notifying"
	StateDone      State = "done"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// DefaultTitle is used when no title is configured.
const DefaultTitle = "backups"

// ErrMissingDependency is returned by NewPipeline when a port is nil.
var ErrMissingDependency = errors.New("audit pipeline dependency is required")

// Options configures a Pipeline.
type Options struct {
	Store        core.RecordStore
	Expectations core.ExpectationSource
	Notifier     core.Notifier
	Logger       *slog.Logger
	Metrics      statsd.Sink
	Title        string
	// SuccessStatus is the status literal that marks a job done.
	SuccessStatus string
	// OnTransition, if set, observes every state change.
	OnTransition func(from, to State)
	Now          func() time.Time
}

// Pipeline runs one audit: query, compare, report, notify.
type Pipeline struct {
	store         core.RecordStore
	expectations  core.ExpectationSource
	notifier      core.Notifier
	logger        *slog.Logger
	metrics       statsd.Sink
	title         string
	successStatus string
	onTransition  func(from, to State)
	now           func() time.Time
}

// Outcome is the result of a run.
type Outcome struct {
	State    State
	Success  bool
	ExitCode int
	// Result is nil when the run failed before comparing.
	Result *model.MatchResult
	Intent model.NotificationIntent
	Report string
	// Err is the store or expectations failure that ended the run early.
	Err error
	// NotifyErr is a delivery failure. It never changes ExitCode.
	NotifyErr error
	Duration  time.Duration
}

// NewPipeline validates options and builds a Pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Store == nil || opts.Expectations == nil {
		return nil, ErrMissingDependency
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "audit")
	}
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Pipeline{
		store:         opts.Store,
		expectations:  opts.Expectations,
		notifier:      opts.Notifier,
		logger:        logger,
		metrics:       opts.Metrics,
		title:         title,
		successStatus: opts.SuccessStatus,
		onTransition:  opts.OnTransition,
		now:           now,
	}, nil
}

// Run performs a full audit and sends exactly one notification.
// Delivery failures are logged and recorded on the outcome; the exit code stands.
func (p *Pipeline) Run(ctx context.Context) Outcome {
	if p.notifier == nil {
		return p.Check(ctx)
	}

	start := p.now()
	out := p.evaluate(ctx)

	p.transition(ctx, &out, StateNotifying)
	if err := p.notifier.Send(ctx, out.Intent); err != nil {
		out.NotifyErr = err
		p.logger.ErrorContext(ctx, "notification delivery failed",
			"error", err,
			"error_class", obserrors.Classify(err),
			"exit_code", out.ExitCode,
		)
	}
	p.finish(ctx, &out, start, out.NotifyErr == nil)
	return out
}

// Check performs the audit without notifying. The outcome carries the intent that Run would send.
func (p *Pipeline) Check(ctx context.Context) Outcome {
	start := p.now()
	out := p.evaluate(ctx)
	p.finish(ctx, &out, start, false)
	return out
}

func (p *Pipeline) evaluate(ctx context.Context) Outcome {
	out := Outcome{State: StateInit, ExitCode: ExitFailure}

	p.transition(ctx, &out, StateQuerying)
	records, err := p.store.QueryToday(ctx)
	if err != nil {
		return p.fail(ctx, out, "record query failed", err)
	}

	expected, err := p.expectations.Load(ctx)
	if err != nil {
		return p.fail(ctx, out, "loading expected backups failed", err)
	}

	p.transition(ctx, &out, StateComparing)
	result := Compare(expected, DeriveDone(records.Records, p.successStatus))
	out.Result = &result

	p.transition(ctx, &out, StateReporting)
	out.Report = Render(records.Columns, records.Records)

	if !result.OK {
		p.logger.WarnContext(ctx, "expected and done backups do not match",
			"expected", result.Expected.Sorted(),
			"done", result.Done.Sorted(),
			"diff", result.Diff.Sorted(),
		)
		out.Intent = model.NotificationIntent{Title: p.title, Message: MismatchMessage(result), Body: out.Report}
		return out
	}

	p.logger.InfoContext(ctx, "all expected backups completed",
		"expected", result.Expected.Len(),
		"records", records.Len(),
	)
	out.Success = true
	out.ExitCode = ExitSuccess
	out.Intent = model.NotificationIntent{Title: p.title, Message: model.MessageSuccess, Body: out.Report}
	return out
}

func (p *Pipeline) fail(ctx context.Context, out Outcome, msg string, err error) Outcome {
	p.logger.ErrorContext(ctx, msg, "error", err, "error_class", obserrors.Classify(err))
	out.Err = err
	out.Intent = model.NotificationIntent{Title: p.title, Message: model.MessageFailure, Body: ErrorBody(err)}
	return out
}

func (p *Pipeline) finish(ctx context.Context, out *Outcome, start time.Time, delivered bool) {
	p.transition(ctx, out, StateDone)
	out.Duration = p.now().Sub(start)

	metrics.EmitRun(p.metrics, metrics.RunMetric{
		Result:    out.Result,
		Err:       out.Err,
		Duration:  out.Duration,
		Delivered: delivered,
	})

	p.logger.InfoContext(ctx, "audit finished",
		"success", out.Success,
		"exit_code", out.ExitCode,
		"duration", out.Duration.String(),
	)
}

func (p *Pipeline) transition(ctx context.Context, out *Outcome, to State) {
	from := out.State
	out.State = to
	p.logger.DebugContext(ctx, "pipeline transition", "from", string(from), "to", string(to))
	if p.onTransition != nil {
		p.onTransition(from, to)
	}
}
