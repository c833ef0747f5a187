package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/target/backup-audit/config"
	apperrors "github.com/target/backup-audit/internal/errors"
	"github.com/target/backup-audit/internal/observability/notify/pagerduty"
	"github.com/target/backup-audit/internal/observability/notify/slack"
	"github.com/target/backup-audit/internal/observability/notify/zulip"
	"github.com/target/backup-audit/internal/service/notifier"
)

// NotifierOptions configures BuildNotifier.
type NotifierOptions struct {
	Config config.NotificationsConfig
	Logger *slog.Logger
	RunID  string
	// HTTPClient overrides the sink's default client.
	HTTPClient *http.Client
}

// BuildSink constructs the sink for the configured channel.
func BuildSink(cfg config.NotificationsConfig, hc *http.Client) (notifier.SinkRegistration, error) {
	switch cfg.Channel {
	case config.ChannelZulip:
		client, err := zulip.NewClient(zulip.Config{
			BotName:      cfg.Zulip.BotName,
			APIKey:       cfg.Zulip.APIKey,
			Organization: cfg.Zulip.Organization,
			Stream:       cfg.Zulip.Stream,
			Timeout:      cfg.Timeout,
			RetryLimit:   cfg.RetryLimit,
			Client:       hc,
		})
		if err != nil {
			return notifier.SinkRegistration{}, apperrors.Wrap(err, apperrors.ErrCodeConfig, "configure zulip sink")
		}
		return notifier.SinkRegistration{Name: string(config.ChannelZulip), Sink: client}, nil
	case config.ChannelSlack:
		client, err := slack.NewClient(slack.Config{
			WebhookURL: cfg.Slack.WebhookURL,
			Channel:    cfg.Slack.Channel,
			Username:   cfg.Slack.Username,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
			Client:     hc,
		})
		if err != nil {
			return notifier.SinkRegistration{}, apperrors.Wrap(err, apperrors.ErrCodeConfig, "configure slack sink")
		}
		return notifier.SinkRegistration{Name: string(config.ChannelSlack), Sink: client}, nil
	case config.ChannelPagerDuty:
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.PagerDuty.RoutingKey,
			Source:     cfg.PagerDuty.Source,
			Component:  cfg.PagerDuty.Component,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
			Client:     hc,
		})
		if err != nil {
			return notifier.SinkRegistration{}, apperrors.Wrap(err, apperrors.ErrCodeConfig, "configure pagerduty sink")
		}
		return notifier.SinkRegistration{Name: string(config.ChannelPagerDuty), Sink: client}, nil
	default:
		return notifier.SinkRegistration{}, apperrors.Configf("unsupported notification channel %q", cfg.Channel)
	}
}

// BuildNotifier wires the configured sink into a notifier service.
func BuildNotifier(opts NotifierOptions) (*notifier.Service, error) {
	sink, err := BuildSink(opts.Config, opts.HTTPClient)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("notification sink configured", "sink", sink.Name)

	return notifier.NewService(notifier.Options{
		Logger: logger.With("component", "notifier"),
		Sink:   sink,
		// Sinks bound each attempt; allow every attempt plus backoff before giving up.
		Timeout: deliveryBudget(opts.Config),
		RunID:   opts.RunID,
	}), nil
}

func deliveryBudget(cfg config.NotificationsConfig) time.Duration {
	return time.Duration(cfg.RetryLimit+1)*cfg.Timeout + time.Duration(cfg.RetryLimit)*time.Second
}
