package queue

// schemaVersion is bumped on any change to the table definition below; the
// database is transient job state, so users clear it to adopt a new schema.
const schemaVersion = "2"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS upload_items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    upload_guid TEXT NOT NULL UNIQUE,
    filename TEXT NOT NULL,
    source_path TEXT NOT NULL,
    status TEXT NOT NULL,
    academic_year TEXT NOT NULL DEFAULT '',
    library_id INTEGER NOT NULL DEFAULT 0,
    library_name TEXT NOT NULL DEFAULT '',
    confidence INTEGER NOT NULL DEFAULT 0,
    needs_manual_selection INTEGER NOT NULL DEFAULT 0,
    suggested_json TEXT NOT NULL DEFAULT '',
    collection_name TEXT NOT NULL DEFAULT '',
    collection_reason TEXT NOT NULL DEFAULT '',
    match_source TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_upload_items_status ON upload_items(status);
CREATE INDEX IF NOT EXISTS idx_upload_items_filename ON upload_items(filename);

CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`
