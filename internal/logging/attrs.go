package logging

import (
	"io"
	"log/slog"
	"time"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldItemID is the standardized structured logging key for queue item identifiers.
	FieldItemID = "item_id"
	// FieldFilename is the standardized structured logging key for source filenames.
	FieldFilename = "filename"
	// FieldLibrary is the standardized structured logging key for destination library names.
	FieldLibrary = "library"
	// FieldCollection is the standardized structured logging key for destination collection names.
	FieldCollection = "collection"
	// FieldConfidence is the standardized structured logging key for match confidence scores.
	FieldConfidence = "confidence"
	// FieldReason is the standardized structured logging key for decision reasons.
	FieldReason = "reason"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attrs to the variadic any form the slog sugar methods expect.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// NewComponentLogger creates a logger with a standardized component attribute.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WithItem returns a logger augmented with the queue item identifier.
func WithItem(logger *slog.Logger, itemID int64) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(Int64(FieldItemID, itemID))
}
