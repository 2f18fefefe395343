// Package workflow orchestrates the match pipeline for queued uploads: parse
// the filename, consult the match caches, score the candidate libraries,
// apply the auto-match decision, route the destination collection, and record
// the outcome on the queue item. It owns no policy of its own; the component
// packages decide, workflow sequences.
package workflow
