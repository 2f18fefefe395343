package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
)

// ErrNotFound is returned when an item lookup matches nothing.
var ErrNotFound = errors.New("queue: item not found")

// Store manages upload queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.QueueDBPath())
}

// OpenPath connects to the queue database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) applySchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schema_info (key, value) VALUES ('version', ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		schemaVersion,
	)
	if err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// NewFile inserts a pending item for a newly ingested video file. Each item
// receives a fresh upload GUID used to address the file on the video host.
func (s *Store) NewFile(ctx context.Context, filename, sourcePath string) (*Item, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, errors.New("queue: filename cannot be empty")
	}
	now := time.Now().UTC()
	guid := uuid.NewString()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO upload_items (upload_guid, filename, source_path, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		guid,
		filename,
		sourcePath,
		StatusPending,
		now.Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read insert id: %w", err)
	}
	return s.ItemByID(ctx, id)
}

// Update persists every mutable field of the item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("queue: item cannot be nil")
	}
	if !ValidStatus(item.Status) {
		return fmt.Errorf("queue: invalid status %q", item.Status)
	}
	item.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(
		ctx,
		`UPDATE upload_items SET
            filename = ?, source_path = ?, status = ?, academic_year = ?,
            library_id = ?, library_name = ?, confidence = ?,
            needs_manual_selection = ?, suggested_json = ?,
            collection_name = ?, collection_reason = ?, match_source = ?,
            error_message = ?, updated_at = ?
         WHERE id = ?`,
		item.Filename,
		item.SourcePath,
		item.Status,
		item.AcademicYear,
		item.LibraryID,
		item.LibraryName,
		item.Confidence,
		boolToInt(item.NeedsManualSelection),
		item.SuggestedJSON,
		item.CollectionName,
		item.CollectionReason,
		item.MatchSource,
		item.ErrorMessage,
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", item.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item %d: rows affected: %w", item.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ItemByID fetches a single item.
func (s *Store) ItemByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	return scanItem(row)
}

// ItemByFilename fetches the most recent item with the given filename.
func (s *Store) ItemByFilename(ctx context.Context, filename string) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE filename = ? ORDER BY id DESC LIMIT 1`, filename)
	return scanItem(row)
}

// List returns items filtered by status; with no statuses given, everything
// is returned in insertion order.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := selectColumns
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, 0, len(statuses))
		for _, status := range statuses {
			if !ValidStatus(status) {
				return nil, fmt.Errorf("queue: invalid status %q", status)
			}
			placeholders = append(placeholders, "?")
			args = append(args, status)
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// NextPending returns the oldest pending item, or nil when the queue is
// drained.
func (s *Store) NextPending(ctx context.Context) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` WHERE status = ? ORDER BY id LIMIT 1`, StatusPending)
	item, err := scanItem(row)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return item, err
}

// Health aggregates item counts per lifecycle state.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM upload_items GROUP BY status`)
	if err != nil {
		return HealthSummary{}, fmt.Errorf("queue health: %w", err)
	}
	defer rows.Close()

	var summary HealthSummary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, fmt.Errorf("queue health scan: %w", err)
		}
		summary.Total += count
		switch status {
		case StatusPending:
			summary.Pending = count
		case StatusMatched:
			summary.Matched = count
		case StatusNeedsSelection:
			summary.NeedsSelection = count
		case StatusUploading:
			summary.Uploading = count
		case StatusCompleted:
			summary.Completed = count
		case StatusFailed:
			summary.Failed = count
		}
	}
	return summary, rows.Err()
}

// ClearCompleted removes completed items and returns the number deleted.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM upload_items WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

const selectColumns = `SELECT id, upload_guid, filename, source_path, status,
    academic_year, library_id, library_name, confidence,
    needs_manual_selection, suggested_json, collection_name,
    collection_reason, match_source, error_message, created_at, updated_at
    FROM upload_items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var needsManual int
	var createdAt, updatedAt string
	err := row.Scan(
		&item.ID,
		&item.UploadGUID,
		&item.Filename,
		&item.SourcePath,
		&item.Status,
		&item.AcademicYear,
		&item.LibraryID,
		&item.LibraryName,
		&item.Confidence,
		&needsManual,
		&item.SuggestedJSON,
		&item.CollectionName,
		&item.CollectionReason,
		&item.MatchSource,
		&item.ErrorMessage,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	item.NeedsManualSelection = needsManual != 0
	if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &item, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
