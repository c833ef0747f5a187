package bootstrap

import (
	"log/slog"

	"github.com/target/backup-audit/config"
	"github.com/target/backup-audit/internal/observability/statsd"
)

// NewMetricsClient builds the StatsD client. Metrics are best effort: a dial failure is
// logged and a disabled client returned so the audit still runs.
func NewMetricsClient(cfg config.ObservabilityMetricsConfig, logger *slog.Logger, tags map[string]string) *statsd.Client {
	if logger == nil {
		logger = slog.Default()
	}
	obsLogger := logger.With("component", "metrics")

	client, err := statsd.NewClient(statsd.Config{
		Enabled:    cfg.IsEnabled(),
		Address:    cfg.StatsdAddress,
		Prefix:     cfg.Prefix,
		Logger:     obsLogger,
		GlobalTags: tags,
	})
	if err != nil {
		obsLogger.Error("failed to initialise statsd client", "error", err)
		disabled, _ := statsd.NewClient(statsd.Config{Logger: obsLogger})
		return disabled
	}
	return client
}
