package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AppConfig is the immutable run configuration, composed from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - database.go: Record store connection and table layout
//   - notifications.go: Notification channel selection and credentials
//   - observability.go: Metrics emission
type AppConfig struct {
	// LogLevel selects the minimum slog level (DEBUG, INFO, WARN, ERROR).
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`

	// ExpectedBackupsFile is the plain-text list of job names expected to complete today.
	ExpectedBackupsFile string `env:"EXPECTED_BACKUPS_FILE" envDefault:"./expected-backups"`

	// Timezone names the IANA zone used to decide what "today" is. "Local" uses the host zone.
	Timezone string `env:"AUDIT_TIMEZONE" envDefault:"Local"`

	// Record store configuration
	Store DBConfig `envPrefix:"DB_"`

	// Notification channel configuration
	Notifications NotificationsConfig `envPrefix:"NOTIFY_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.LogLevel = strings.ToUpper(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	c.ExpectedBackupsFile = strings.TrimSpace(c.ExpectedBackupsFile)
	if c.Timezone = strings.TrimSpace(c.Timezone); c.Timezone == "" {
		c.Timezone = "Local"
	}

	c.Store.Sanitize()
	c.Notifications.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports every missing or inconsistent setting at once.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.ExpectedBackupsFile == "" {
		errs = append(errs, errors.New("EXPECTED_BACKUPS_FILE is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Store.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Notifications.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves Timezone to a *time.Location.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("AUDIT_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Redacted returns a copy safe to print or log: every credential is masked.
func (c AppConfig) Redacted() AppConfig {
	c.Store = c.Store.Redacted()
	c.Notifications.Zulip.APIKey = mask(c.Notifications.Zulip.APIKey)
	c.Notifications.Slack.WebhookURL = mask(c.Notifications.Slack.WebhookURL)
	c.Notifications.PagerDuty.RoutingKey = mask(c.Notifications.PagerDuty.RoutingKey)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "*****"
}
