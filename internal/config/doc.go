// Package config loads and validates the TOML configuration file.
//
// Load resolves the config path (explicit flag, ~/.config/elkheta/config.toml,
// or a project-local elkheta.toml), decodes it over the built-in defaults,
// expands ~ in path fields, and validates the result. The [grammar] and
// [academic] sections carry the closed token enumerations and the year-keyed
// table the filename parser depends on; everything else is wiring for the
// queue, the video-host client, notifications, and the ingest watcher.
package config
