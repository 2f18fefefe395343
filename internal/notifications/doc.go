// Package notifications delivers pipeline events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Per-event toggles let operators silence auto-match chatter while
// still hearing about files that need manual review.
//
// Extend this package if you need alternative transports; all workflow code
// depends only on the simple Service interface.
package notifications
