// Package logging wraps log/slog with the construction and attribute helpers
// used across the application.
//
// New builds a logger from config-driven options (level, console or JSON
// format, one or more output paths). The Attr aliases and Field* constants
// keep structured keys consistent between components so queue listings,
// match decisions, and notification events remain greppable in the logs.
package logging
