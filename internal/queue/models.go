package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle of an upload item.
type Status string

const (
	StatusPending        Status = "pending"
	StatusMatched        Status = "matched"
	StatusNeedsSelection Status = "needs_selection"
	StatusUploading      Status = "uploading"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusMatched,
	StatusNeedsSelection,
	StatusUploading,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ValidStatus reports whether the value is a known status.
func ValidStatus(status Status) bool {
	_, ok := statusSet[status]
	return ok
}

// ParseStatus converts user input into a Status.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !ValidStatus(status) {
		return "", fmt.Errorf("unknown status %q", value)
	}
	return status, nil
}

// Suggestion is one operator-facing library suggestion attached to an item
// flagged for manual selection.
type Suggestion struct {
	LibraryID   int64  `json:"library_id"`
	LibraryName string `json:"library_name"`
	Score       int    `json:"score"`
}

// Item represents an upload queue item persisted in SQLite.
type Item struct {
	ID         int64
	UploadGUID string
	Filename   string
	SourcePath string
	Status     Status

	AcademicYear         string
	LibraryID            int64
	LibraryName          string
	Confidence           int
	NeedsManualSelection bool
	SuggestedJSON        string
	CollectionName       string
	CollectionReason     string
	MatchSource          string
	ErrorMessage         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Suggestions decodes the attached suggestion list. A corrupt or empty
// payload yields nil rather than an error.
func (i *Item) Suggestions() []Suggestion {
	if strings.TrimSpace(i.SuggestedJSON) == "" {
		return nil
	}
	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(i.SuggestedJSON), &suggestions); err != nil {
		return nil
	}
	return suggestions
}

// SetSuggestions encodes and attaches the suggestion list.
func (i *Item) SetSuggestions(suggestions []Suggestion) error {
	if len(suggestions) == 0 {
		i.SuggestedJSON = ""
		return nil
	}
	data, err := json.Marshal(suggestions)
	if err != nil {
		return fmt.Errorf("encode suggestions: %w", err)
	}
	i.SuggestedJSON = string(data)
	return nil
}

// HealthSummary describes aggregated queue counts per lifecycle state.
type HealthSummary struct {
	Total          int
	Pending        int
	Matched        int
	NeedsSelection int
	Uploading      int
	Completed      int
	Failed         int
}
