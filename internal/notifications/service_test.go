package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyFileDetected(context.Background(), "M2-T1-SCI.mp4"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type capturedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func captureServer(t *testing.T, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		captured.title = r.Header.Get("Title")
		captured.tags = r.Header.Get("Tags")
		captured.priority = r.Header.Get("Priority")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		captured.body = string(body)
		_ = r.Body.Close()
		w.WriteHeader(http.StatusOK)
	}))
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		send           func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "file detected",
			send: func(svc notifications.Service) error {
				return svc.NotifyFileDetected(context.Background(), "M2-T1-U2-SCI-P0078.mp4")
			},
			expectTitle:   "Elkheta - File Detected",
			expectMessage: "New video queued: M2-T1-U2-SCI-P0078.mp4",
			expectTags:    "elkheta,ingest,detected",
		},
		{
			name: "auto matched",
			send: func(svc notifications.Service) error {
				return svc.NotifyAutoMatched(context.Background(), "M2-SCI-P0078.mp4", "M2 Science - Mr Karim", "T1-M2", 145)
			},
			expectTitle:   "Elkheta - Auto Matched",
			expectMessage: "Matched M2-SCI-P0078.mp4 to M2 Science - Mr Karim (confidence 145)\nCollection: T1-M2",
			expectTags:    "elkheta,match,auto",
		},
		{
			name: "manual selection needed",
			send: func(svc notifications.Service) error {
				return svc.NotifyManualSelectionNeeded(context.Background(), "mystery.mp4", 3)
			},
			expectTitle:    "Elkheta - Review Needed",
			expectMessage:  "Could not auto-match: mystery.mp4\nManual library selection required (3 suggestions available)",
			expectTags:     "elkheta,match,review",
			expectPriority: "high",
		},
		{
			name: "upload completed",
			send: func(svc notifications.Service) error {
				return svc.NotifyUploadCompleted(context.Background(), "M2-SCI-P0078.mp4", "M2 Science - Mr Karim")
			},
			expectTitle:   "Elkheta - Upload Complete",
			expectMessage: "Uploaded M2-SCI-P0078.mp4 to M2 Science - Mr Karim",
			expectTags:    "elkheta,upload,completed",
		},
		{
			name: "batch completed with failures",
			send: func(svc notifications.Service) error {
				return svc.NotifyBatchCompleted(context.Background(), 8, 2, 90e9)
			},
			expectTitle:   "Elkheta - Batch Complete (with errors)",
			expectMessage: "Batch complete: 8 succeeded, 2 failed in 1m30s",
			expectTags:    "elkheta,batch,completed",
		},
		{
			name: "error",
			send: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("library request timed out"), "matching")
			},
			expectTitle:    "Elkheta - Error",
			expectMessage:  "Error with matching: library request timed out",
			expectTags:     "elkheta,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured capturedRequest
			server := captureServer(t, &captured)
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5
			cfg.Notifications.AutoMatch = true
			cfg.Notifications.ManualReview = true
			cfg.Notifications.Errors = true

			svc := notifications.NewService(&cfg)
			if err := tc.send(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsEventToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call for disabled event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.AutoMatch = false
	cfg.Notifications.ManualReview = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	if err := svc.NotifyAutoMatched(ctx, "x.mp4", "lib", "", 100); err != nil {
		t.Fatalf("disabled auto-match notification errored: %v", err)
	}
	if err := svc.NotifyManualSelectionNeeded(ctx, "x.mp4", 0); err != nil {
		t.Fatalf("disabled manual-review notification errored: %v", err)
	}
	if err := svc.NotifyError(ctx, errors.New("boom"), "test"); err != nil {
		t.Fatalf("disabled error notification errored: %v", err)
	}
}

func TestNtfyServiceReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
