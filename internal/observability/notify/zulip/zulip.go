// Package zulip posts audit notifications to a Zulip stream via the REST API.
package zulip

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/target/backup-audit/internal/observability/notify"
)

// CloudDomain is appended to bare organization names.
const CloudDomain = "zulipchat.com"

const (
	messagesPath = "/api/v1/messages"
	maxTopicLen  = 60
)

// Config captures the Zulip bot credentials and destination.
type Config struct {
	BotName      string
	APIKey       string
	Organization string
	Stream       string
	// BaseURL overrides the server derived from Organization.
	BaseURL    string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client sends stream messages as a Zulip bot.
type Client struct {
	baseURL   string
	botEmail  string
	apiKey    string
	stream    string
	transport *notify.Transport
}

// NewClient builds a Zulip client. Bot name, API key, organization and stream are required.
func NewClient(cfg Config) (*Client, error) {
	var errs []error
	botName := strings.TrimSpace(cfg.BotName)
	if botName == "" {
		errs = append(errs, errors.New("zulip bot name is required"))
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		errs = append(errs, errors.New("zulip api key is required"))
	}
	org := strings.TrimSpace(cfg.Organization)
	if org == "" && strings.TrimSpace(cfg.BaseURL) == "" {
		errs = append(errs, errors.New("zulip organization is required"))
	}
	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		errs = append(errs, errors.New("zulip stream is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	host := Host(org)
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://" + host
	}

	return &Client{
		baseURL:   baseURL,
		botEmail:  BotEmail(botName, host),
		apiKey:    apiKey,
		stream:    stream,
		transport: notify.NewTransport("zulip", cfg.Client, cfg.Timeout, cfg.RetryLimit),
	}, nil
}

// Host resolves an organization to a server host name. Bare names map to <org>.zulipchat.com.
func Host(org string) string {
	org = strings.TrimSpace(org)
	org = strings.TrimPrefix(strings.TrimPrefix(org, "https://"), "http://")
	org = strings.TrimRight(org, "/")
	if org == "" || strings.Contains(org, ".") {
		return org
	}
	return org + "." + CloudDomain
}

// BotEmail resolves a bot name to its login e-mail. Full addresses pass through unchanged.
func BotEmail(botName, host string) string {
	botName = strings.TrimSpace(botName)
	if strings.Contains(botName, "@") {
		return botName
	}
	if !strings.HasSuffix(botName, "-bot") {
		botName += "-bot"
	}
	return botName + "@" + host
}

// Send posts the payload as a stream message using the title as topic.
func (c *Client) Send(ctx context.Context, payload notify.Payload) error {
	form := url.Values{}
	form.Set("type", "stream")
	form.Set("to", c.stream)
	form.Set("topic", topic(payload.Title))
	form.Set("content", payload.Text())
	encoded := form.Encode()

	endpoint := c.baseURL + messagesPath
	return c.transport.Do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.botEmail, c.apiKey)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

// BotEmail returns the login used for basic auth.
func (c *Client) BotEmail() string { return c.botEmail }

// Endpoint returns the messages URL this client posts to.
func (c *Client) Endpoint() string { return c.baseURL + messagesPath }

func topic(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "backups"
	}
	runes := []rune(title)
	if len(runes) > maxTopicLen {
		return fmt.Sprintf("%s…", string(runes[:maxTopicLen-1]))
	}
	return title
}
