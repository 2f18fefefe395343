package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
)

const userAgent = "Elkheta-Operation/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyFileDetected(ctx context.Context, filename string) error
	NotifyAutoMatched(ctx context.Context, filename, libraryName, collectionName string, confidence int) error
	NotifyManualSelectionNeeded(ctx context.Context, filename string, suggestionCount int) error
	NotifyUploadCompleted(ctx context.Context, filename, libraryName string) error
	NotifyBatchCompleted(ctx context.Context, processed, failed int, duration time.Duration) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:     topic,
		client:       &http.Client{Timeout: timeout},
		autoMatch:    cfg.Notifications.AutoMatch,
		manualReview: cfg.Notifications.ManualReview,
		errors:       cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint     string
	client       *http.Client
	autoMatch    bool
	manualReview bool
	errors       bool
}

func (n *ntfyService) NotifyFileDetected(ctx context.Context, filename string) error {
	filename = strings.TrimSpace(filename)
	data := payload{
		title:   "Elkheta - File Detected",
		message: fmt.Sprintf("New video queued: %s", filename),
		tags:    []string{"elkheta", "ingest", "detected"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAutoMatched(ctx context.Context, filename, libraryName, collectionName string, confidence int) error {
	if !n.autoMatch {
		return nil
	}
	filename = strings.TrimSpace(filename)
	libraryName = strings.TrimSpace(libraryName)
	message := fmt.Sprintf("Matched %s to %s (confidence %d)", filename, libraryName, confidence)
	if collectionName = strings.TrimSpace(collectionName); collectionName != "" {
		message = fmt.Sprintf("%s\nCollection: %s", message, collectionName)
	}
	data := payload{
		title:   "Elkheta - Auto Matched",
		message: message,
		tags:    []string{"elkheta", "match", "auto"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyManualSelectionNeeded(ctx context.Context, filename string, suggestionCount int) error {
	if !n.manualReview {
		return nil
	}
	filename = strings.TrimSpace(filename)
	message := fmt.Sprintf("Could not auto-match: %s\nManual library selection required", filename)
	if suggestionCount > 0 {
		message = fmt.Sprintf("%s (%d suggestions available)", message, suggestionCount)
	}
	data := payload{
		title:    "Elkheta - Review Needed",
		message:  message,
		tags:     []string{"elkheta", "match", "review"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUploadCompleted(ctx context.Context, filename, libraryName string) error {
	filename = strings.TrimSpace(filename)
	libraryName = strings.TrimSpace(libraryName)
	data := payload{
		title:   "Elkheta - Upload Complete",
		message: fmt.Sprintf("Uploaded %s to %s", filename, libraryName),
		tags:    []string{"elkheta", "upload", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, processed, failed int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title, message string
	if failed == 0 {
		title = "Elkheta - Batch Complete"
		message = fmt.Sprintf("Batch complete: %d items processed in %s", processed, durationText)
	} else {
		title = "Elkheta - Batch Complete (with errors)"
		message = fmt.Sprintf("Batch complete: %d succeeded, %d failed in %s", processed, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"elkheta", "batch", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Elkheta - Error",
		message:  builder.String(),
		tags:     []string{"elkheta", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Elkheta - Test",
		message:  "Notification system test",
		tags:     []string{"elkheta", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyFileDetected(context.Context, string) error                      { return nil }
func (noopService) NotifyAutoMatched(context.Context, string, string, string, int) error  { return nil }
func (noopService) NotifyManualSelectionNeeded(context.Context, string, int) error        { return nil }
func (noopService) NotifyUploadCompleted(context.Context, string, string) error           { return nil }
func (noopService) NotifyBatchCompleted(context.Context, int, int, time.Duration) error   { return nil }
func (noopService) NotifyError(context.Context, error, string) error                      { return nil }
func (noopService) TestNotification(context.Context) error                                { return nil }
