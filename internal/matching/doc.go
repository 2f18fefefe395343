// Package matching scores candidate libraries against parsed filename
// metadata and decides whether the best match may be applied automatically.
//
// ScoreLibrary is pure and returns a per-rule Breakdown alongside the clamped
// total, so tests assert on individual rule contributions rather than log
// output. FindMatchingLibrary ranks the candidates with a stable sort and
// keeps rejected candidates visible in Alternatives. Decide applies the
// auto-apply gates plus an ordered list of special low-confidence overrides;
// anything that does not pass is flagged for manual selection with
// Suggestions attached.
//
// The only hard error is ErrNoCandidates for an empty library list. Every
// other degraded outcome (unparseable name, low confidence, ambiguous track)
// is an expected result, not an error.
package matching
