package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const defaultNotificationTitle = "backups"

// Channel names the single notification channel used by a deployment.
type Channel string

const (
	// ChannelZulip posts to a Zulip stream through the bot API.
	ChannelZulip Channel = "zulip"
	// ChannelSlack posts to a Slack incoming webhook.
	ChannelSlack Channel = "slack"
	// ChannelPagerDuty triggers PagerDuty Events API v2 events.
	ChannelPagerDuty Channel = "pagerduty"
)

// UnmarshalText implements encoding.TextUnmarshaler for Channel to allow env parsing.
func (c *Channel) UnmarshalText(text []byte) error {
	v := Channel(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid NOTIFY_CHANNEL: %q", string(text))
	}
	*c = v
	return nil
}

// Valid returns true if the Channel is supported.
func (c Channel) Valid() bool {
	return c == ChannelZulip || c == ChannelSlack || c == ChannelPagerDuty
}

// NotificationsConfig controls the outbound pass/fail notification.
type NotificationsConfig struct {
	Channel Channel `env:"CHANNEL" envDefault:"zulip"`
	// Title is the notification title (the Zulip topic, the Slack headline, the PagerDuty summary prefix).
	Title      string                `env:"TITLE"       envDefault:"backups"`
	Timeout    time.Duration         `env:"TIMEOUT"     envDefault:"10s"`
	RetryLimit int                   `env:"RETRY_LIMIT" envDefault:"0"`
	Zulip      ZulipConfig           `                                     envPrefix:"ZULIP_"`
	Slack      SlackConfig           `                                     envPrefix:"SLACK_"`
	PagerDuty  PagerDutyNotifyConfig `                                     envPrefix:"PAGERDUTY_"`
}

// Sanitize normalises notification configuration values.
func (c *NotificationsConfig) Sanitize() {
	if c.Channel == "" {
		c.Channel = ChannelZulip
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}

	c.Zulip.sanitize()
	c.Slack.sanitize()
	c.PagerDuty.sanitize()

	c.Title = strings.TrimSpace(c.Title)
	if c.Channel == ChannelZulip && c.Zulip.Topic != "" {
		c.Title = c.Zulip.Topic
	}
	if c.Title == "" {
		c.Title = defaultNotificationTitle
	}
}

// Validate checks that the selected channel has the credentials it needs.
func (c *NotificationsConfig) Validate() error {
	switch c.Channel {
	case ChannelZulip:
		return c.Zulip.validate()
	case ChannelSlack:
		if c.Slack.WebhookURL == "" {
			return errors.New("NOTIFY_SLACK_WEBHOOK_URL is required for the slack channel")
		}
		return nil
	case ChannelPagerDuty:
		if c.PagerDuty.RoutingKey == "" {
			return errors.New("NOTIFY_PAGERDUTY_ROUTING_KEY is required for the pagerduty channel")
		}
		return nil
	default:
		return fmt.Errorf("NOTIFY_CHANNEL %q is not supported", c.Channel)
	}
}

// ZulipConfig mirrors the zulip://bot@organization/key/stream/ target.
type ZulipConfig struct {
	BotName      string `env:"BOT_NAME"`
	APIKey       string `env:"API_KEY"`
	Organization string `env:"ORGANIZATION"`
	Stream       string `env:"STREAM"`
	Topic        string `env:"TOPIC"`
}

func (c *ZulipConfig) sanitize() {
	c.BotName = strings.TrimSpace(c.BotName)
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Organization = strings.TrimSpace(c.Organization)
	c.Stream = strings.TrimSpace(c.Stream)
	c.Topic = strings.TrimSpace(c.Topic)
}

func (c *ZulipConfig) validate() error {
	var errs []error
	if c.BotName == "" {
		errs = append(errs, errors.New("NOTIFY_ZULIP_BOT_NAME is required for the zulip channel"))
	}
	if c.APIKey == "" {
		errs = append(errs, errors.New("NOTIFY_ZULIP_API_KEY is required for the zulip channel"))
	}
	if c.Organization == "" {
		errs = append(errs, errors.New("NOTIFY_ZULIP_ORGANIZATION is required for the zulip channel"))
	}
	if c.Stream == "" {
		errs = append(errs, errors.New("NOTIFY_ZULIP_STREAM is required for the zulip channel"))
	}
	return errors.Join(errs...)
}

// SlackConfig controls Slack webhook delivery.
type SlackConfig struct {
	WebhookURL string `env:"WEBHOOK_URL"`
	Channel    string `env:"CHANNEL"`
	Username   string `env:"USERNAME" envDefault:"backup-audit"`
}

func (c *SlackConfig) sanitize() {
	c.WebhookURL = strings.TrimSpace(c.WebhookURL)
	c.Channel = strings.TrimSpace(c.Channel)
	if c.Username = strings.TrimSpace(c.Username); c.Username == "" {
		c.Username = defaultObservabilityName
	}
}

// PagerDutyNotifyConfig controls PagerDuty Events API v2 delivery.
type PagerDutyNotifyConfig struct {
	RoutingKey string `env:"ROUTING_KEY"`
	Source     string `env:"SOURCE"      envDefault:"backup-audit"`
	Component  string `env:"COMPONENT"   envDefault:"backups"`
}

func (c *PagerDutyNotifyConfig) sanitize() {
	c.RoutingKey = strings.TrimSpace(c.RoutingKey)
	if c.Source = strings.TrimSpace(c.Source); c.Source == "" {
		c.Source = defaultObservabilityName
	}
	if c.Component = strings.TrimSpace(c.Component); c.Component == "" {
		c.Component = defaultNotificationTitle
	}
}
