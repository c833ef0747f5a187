package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RequestFunc builds a fresh request for each delivery attempt.
type RequestFunc func(ctx context.Context) (*http.Request, error)

// Transport posts sink requests with an optional bounded, linearly backed-off retry.
type Transport struct {
	name       string
	client     *http.Client
	retryLimit int
	backoff    time.Duration
}

// NewTransport builds a Transport. A nil client gets one with the given timeout.
func NewTransport(name string, hc *http.Client, timeout time.Duration, retryLimit int) *Transport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Transport{
		name:       name,
		client:     hc,
		retryLimit: max(retryLimit, 0),
		backoff:    200 * time.Millisecond,
	}
}

// Do sends the request built by newRequest, retrying up to the retry limit on failure.
func (t *Transport) Do(ctx context.Context, newRequest RequestFunc) error {
	attempts := t.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		lastErr = t.once(ctx, newRequest)
		if lastErr == nil {
			return nil
		}
		if attempt < attempts-1 {
			// Simple linear backoff to avoid thundering retries.
			delay := time.Duration(attempt+1) * t.backoff
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return lastErr
}

func (t *Transport) once(ctx context.Context, newRequest RequestFunc) error {
	req, err := newRequest(ctx)
	if err != nil {
		return fmt.Errorf("create %s request: %w", t.name, err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", t.name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return t.errorResponse(resp)
	}
	return t.drain(resp)
}

func (t *Transport) drain(resp *http.Response) error {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		if closeErr := resp.Body.Close(); closeErr != nil {
			return errors.Join(
				fmt.Errorf("drain %s response body: %w", t.name, err),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("drain %s response body: %w", t.name, err)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}
	return nil
}

func (t *Transport) errorResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if readErr != nil {
		if closeErr := resp.Body.Close(); closeErr != nil {
			return errors.Join(
				fmt.Errorf("read %s error response: %w", t.name, readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("read %s error response: %w", t.name, readErr)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return fmt.Errorf("%s %s: %s", t.name, resp.Status, strings.TrimSpace(string(respBody)))
}
