// Package kvstore provides the durable JSON key-value store backing the
// learning store and user-selection cache.
//
// Writes are atomic (temp file plus rename) and guarded by a flock sidecar
// so concurrent CLI invocations cannot interleave partial writes. Corrupt or
// missing files load as an empty table by design.
package kvstore
