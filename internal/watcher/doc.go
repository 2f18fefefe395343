// Package watcher is the filesystem ingress for the pipeline: it monitors
// the configured ingest directory with fsnotify and enqueues newly arrived
// video files once their writes have settled.
package watcher
