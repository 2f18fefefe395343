// Package matchcache accelerates and biases library matching with four cache
// tiers: exact-filename user selections, learned keyword mappings, conflict
// keys for two-subject filenames, and pattern keys derived from parsed
// metadata.
//
// The pattern and conflict tiers live for the process session; user
// selections and learned mappings persist through the key-value store and
// are reloaded at startup. Keys are deterministic (fixed field order: year,
// track, branch, teacher) so identical parses always hit the same entries.
// Pattern writes are last-write-wins; learned mappings are first-write-wins
// so one popular file cannot silently override an established mapping.
package matchcache
