package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/target/bayflow/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when webhook url missing")
	}
}

func TestFormatMessageIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#bayflow",
		Username:   "bot",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.RouteNotification{
		Outcome:    notify.OutcomeFailure,
		JobID:      "exec-1",
		Tenant:     "acme",
		FlowID:     "inbound-v1",
		Source:     "s3://landing/inbound/acme/inbox/f.csv",
		Error:      "AccessDenied",
		ErrorClass: "routing",
	})

	if msg["username"] != "bot" {
		t.Fatalf("expected username to be preserved, got %v", msg["username"])
	}
	if msg["channel"] != "#bayflow" {
		t.Fatalf("expected channel to be set, got %v", msg["channel"])
	}
	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	for _, want := range []string{"FAILURE", "acme/inbound-v1", "exec-1", "s3://landing", "AccessDenied", "routing"} {
		if !strings.Contains(text, want) {
			t.Fatalf("message text missing %q: %s", want, text)
		}
	}
	if strings.Contains(text, "Target:") {
		t.Fatalf("empty target should be omitted: %s", text)
	}
}

func TestFormatMessageJobLink(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL:   "https://hooks.slack.com/services/test",
		JobURLPrefix: "https://bayflow.local/jobs",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text, _ := client.formatMessage(notify.RouteNotification{JobID: "exec-9"})["text"].(string)
	if !strings.Contains(text, "<https://bayflow.local/jobs/exec-9|exec-9>") {
		t.Fatalf("expected job link in text: %s", text)
	}
}

func TestSendRouteNotificationRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, RetryLimit: 1, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.SendRouteNotification(context.Background(), notify.RouteNotification{Outcome: notify.OutcomeSuccess}); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestSendRouteNotificationFailuresOnly(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client, err := NewClient(Config{WebhookURL: srv.URL, FailuresOnly: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()
	if err := client.SendRouteNotification(ctx, notify.RouteNotification{Outcome: notify.OutcomeSuccess}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.SendRouteNotification(ctx, notify.RouteNotification{Outcome: notify.OutcomeFailure}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected only the failure to be sent, got %d calls", calls.Load())
	}
}
