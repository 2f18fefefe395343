// Package queue persists upload items in SQLite and tracks their progress
// through the matching and upload lifecycle. Items enter as pending, move to
// matched or needs_selection after library matching, and end as completed or
// failed once the upload finishes.
package queue
