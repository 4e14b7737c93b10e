// Package slack delivers route notifications to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/target/bayflow/internal/observability/notify"
)

// Config captures the subset of Slack webhook behaviour we need.
type Config struct {
	WebhookURL string
	Channel    string
	Username   string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	// JobURLPrefix, when set, links the job id to the front end (e.g. https://bayflow.local/jobs).
	JobURLPrefix string
	// FailuresOnly suppresses success notifications.
	FailuresOnly bool
}

// Client delivers route notifications to a Slack webhook.
type Client struct {
	webhookURL   string
	channel      string
	username     string
	retryLimit   int
	jobURLPrefix string
	failuresOnly bool
	client       *http.Client
}

// NewClient builds a Slack webhook client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, errors.New("slack webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		webhookURL:   webhookURL,
		channel:      strings.TrimSpace(cfg.Channel),
		username:     fallbackString(strings.TrimSpace(cfg.Username), "bayflow"),
		retryLimit:   max(cfg.RetryLimit, 0),
		jobURLPrefix: strings.TrimSpace(cfg.JobURLPrefix),
		failuresOnly: cfg.FailuresOnly,
		client:       hc,
	}, nil
}

// SendRouteNotification posts a formatted message to Slack, retrying with linear backoff.
func (c *Client) SendRouteNotification(ctx context.Context, n notify.RouteNotification) error {
	if c.failuresOnly && n.Outcome != notify.OutcomeFailure {
		return nil
	}

	body, err := json.Marshal(c.formatMessage(n))
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		if lastErr = c.post(ctx, body); lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * 200 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

func (c *Client) formatMessage(n notify.RouteNotification) map[string]any {
	ts := n.OccurredAt
	if ts.IsZero() {
		ts = time.Now()
	}

	var text strings.Builder
	icon := ":white_check_mark:"
	if n.Outcome == notify.OutcomeFailure {
		icon = ":x:"
	}
	fmt.Fprintf(&text, "%s *BayFlow %s* for `%s/%s`\n", icon, n.Outcome,
		escapeSlackText(n.Tenant), escapeSlackText(n.FlowID))

	appendSlackField(&text, "Job", c.formatJobValue(n.JobID))
	appendSlackField(&text, "Source", escapeSlackText(n.Source))
	appendSlackField(&text, "Target", escapeSlackText(n.Target))
	appendSlackField(&text, "Error class", n.ErrorClass)
	appendSlackField(&text, "Error", escapeSlackText(n.Error))
	text.WriteString("• Timestamp: ")
	text.WriteString(ts.UTC().Format(time.RFC3339))

	msg := map[string]any{
		"text":     text.String(),
		"username": c.username,
	}
	if c.channel != "" {
		msg["channel"] = c.channel
	}
	return msg
}

func (c *Client) formatJobValue(jobID string) string {
	id := strings.TrimSpace(jobID)
	if id == "" {
		return ""
	}
	if c.jobURLPrefix == "" {
		return escapeSlackText(id)
	}
	u, err := url.Parse(c.jobURLPrefix)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return escapeSlackText(id)
	}
	link, err := url.JoinPath(u.String(), url.PathEscape(id))
	if err != nil {
		return escapeSlackText(id)
	}
	return fmt.Sprintf("<%s|%s>", link, escapeSlackText(id))
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return fmt.Errorf("read slack error response: %w", readErr)
		}
		return fmt.Errorf("slack webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("drain slack response body: %w", err)
	}
	return nil
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func escapeSlackText(value string) string {
	if value == "" {
		return ""
	}
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	).Replace(value)
}

func appendSlackField(text *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	text.WriteString("• ")
	text.WriteString(label)
	text.WriteString(": ")
	text.WriteString(value)
	text.WriteByte('\n')
}
