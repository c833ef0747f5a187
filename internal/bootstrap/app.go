package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/target/backup-audit/config"
	"github.com/target/backup-audit/internal/data"
	"github.com/target/backup-audit/internal/observability/statsd"
	"github.com/target/backup-audit/internal/service/audit"
	"github.com/target/backup-audit/internal/service/notifier"
)

// AuditorOptions configures BuildAuditor.
type AuditorOptions struct {
	Config config.AppConfig
	Logger *slog.Logger
	// RunID defaults to a fresh UUID.
	RunID string
	// Clock and Connect override the real clock and database for tests.
	Clock      data.TimeProvider
	Connect    data.Connector
	HTTPClient *http.Client
	// SkipNotifier builds the pipeline without a notifier, for dry runs.
	SkipNotifier bool
}

// Auditor bundles a wired pipeline with the resources that must be released at exit.
type Auditor struct {
	RunID        string
	Pipeline     *audit.Pipeline
	Store        *data.SQLRecordStore
	Expectations *data.FileExpectationSource
	Notifier     *notifier.Service
	Metrics      *statsd.Client
	Logger       *slog.Logger
}

// BuildAuditor wires the record store, expectations file, notifier and metrics into a pipeline.
// Every returned error is a config error.
func BuildAuditor(opts AuditorOptions) (*Auditor, error) {
	cfg := opts.Config

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	base := opts.Logger
	if base == nil {
		base = slog.Default()
	}
	logger := base.With("run_id", runID)

	loc, err := cfg.Location()
	if err != nil {
		return nil, configError(err, "load audit timezone")
	}

	dialect, err := data.DialectFor(cfg.Store.Driver)
	if err != nil {
		return nil, configError(err, "select sql dialect")
	}

	connect := opts.Connect
	if connect == nil {
		connect = NewConnector(DatabaseConfig{DBConfig: cfg.Store, Logger: logger})
	}

	store, err := data.NewSQLRecordStore(data.SQLRecordStoreOptions{
		Connect:      connect,
		Dialect:      dialect,
		Table:        cfg.Store.Table,
		DateColumn:   cfg.Store.DateColumn,
		JobColumn:    cfg.Store.JobColumn,
		StatusColumn: cfg.Store.StatusColumn,
		Location:     loc,
		Clock:        opts.Clock,
		QueryTimeout: cfg.Store.QueryTimeout,
		Logger:       logger,
	})
	if err != nil {
		return nil, configError(err, "build record store")
	}

	expectations, err := data.NewFileExpectationSource(cfg.ExpectedBackupsFile, logger)
	if err != nil {
		return nil, configError(err, "build expectation source")
	}

	a := &Auditor{
		RunID:        runID,
		Store:        store,
		Expectations: expectations,
		Logger:       logger,
	}

	pipelineOpts := audit.Options{
		Store:         store,
		Expectations:  expectations,
		Logger:        logger.With("component", "audit"),
		Title:         cfg.Notifications.Title,
		SuccessStatus: cfg.Store.SuccessStatus,
	}

	if !opts.SkipNotifier {
		svc, err := BuildNotifier(NotifierOptions{
			Config:     cfg.Notifications,
			Logger:     logger,
			RunID:      runID,
			HTTPClient: opts.HTTPClient,
		})
		if err != nil {
			return nil, err
		}
		a.Notifier = svc
		pipelineOpts.Notifier = svc
	}

	a.Metrics = NewMetricsClient(cfg.Observability.Metrics, logger, map[string]string{
		"driver":  string(cfg.Store.Driver.Dialect()),
		"channel": string(cfg.Notifications.Channel),
	})
	pipelineOpts.Metrics = a.Metrics

	p, err := audit.NewPipeline(pipelineOpts)
	if err != nil {
		return nil, configError(err, "build audit pipeline")
	}
	a.Pipeline = p
	return a, nil
}

// Run executes the pipeline once.
func (a *Auditor) Run(ctx context.Context) audit.Outcome {
	return a.Pipeline.Run(ctx)
}

// Close flushes metrics.
func (a *Auditor) Close() error {
	if a == nil {
		return nil
	}
	return a.Metrics.Close()
}
