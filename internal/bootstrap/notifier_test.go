package bootstrap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/backup-audit/config"
	apperrors "github.com/target/backup-audit/internal/errors"
)

func TestBuildSinkPerChannel(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.NotificationsConfig
	}{
		{"zulip", config.NotificationsConfig{
			Channel: config.ChannelZulip,
			Zulip:   config.ZulipConfig{BotName: "b", APIKey: "k", Organization: "acme", Stream: "ops"},
		}},
		{"slack", config.NotificationsConfig{
			Channel: config.ChannelSlack,
			Slack:   config.SlackConfig{WebhookURL: "https://hooks.slack.com/services/x"},
		}},
		{"pagerduty", config.NotificationsConfig{
			Channel:   config.ChannelPagerDuty,
			PagerDuty: config.PagerDutyNotifyConfig{RoutingKey: "rk"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := BuildSink(tt.cfg, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.name, reg.Name)
			assert.NotNil(t, reg.Sink)
		})
	}
}

func TestBuildSinkMissingCredentials(t *testing.T) {
	_, err := BuildSink(config.NotificationsConfig{Channel: config.ChannelZulip}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))

	_, err = BuildSink(config.NotificationsConfig{Channel: "email"}, nil)
	assert.True(t, apperrors.IsConfig(err))
}

func TestDeliveryBudget(t *testing.T) {
	assert.Equal(t, 10*time.Second, deliveryBudget(config.NotificationsConfig{Timeout: 10 * time.Second}))
	assert.Equal(t, 32*time.Second, deliveryBudget(config.NotificationsConfig{Timeout: 10 * time.Second, RetryLimit: 2}))
}

func TestBuildNotifier(t *testing.T) {
	svc, err := BuildNotifier(NotifierOptions{
		Config: config.NotificationsConfig{
			Channel: config.ChannelSlack,
			Timeout: time.Second,
			Slack:   config.SlackConfig{WebhookURL: "https://hooks.slack.com/services/x"},
		},
		RunID: "abc",
	})
	require.NoError(t, err)
	assert.True(t, svc.Enabled())
	assert.Equal(t, "slack", svc.SinkName())
}
