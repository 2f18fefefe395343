package matching

import (
	"errors"
	"sort"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/library"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
)

// ErrNoCandidates is returned when matching is attempted against an empty
// library list. This is the one hard failure in the matching flow; every
// other degraded outcome surfaces as a manual-selection flag instead.
var ErrNoCandidates = errors.New("matching: no candidate libraries")

// ScoredLibrary pairs a candidate with its score and rule breakdown.
type ScoredLibrary struct {
	Library   library.Library
	Score     int
	Breakdown Breakdown
}

// LibraryMatch is the outcome of one match attempt. Best is nil when every
// candidate fell at or below the rejection threshold.
type LibraryMatch struct {
	Best         *library.Library
	Confidence   int
	Alternatives []ScoredLibrary
}

// FindMatchingLibrary scores every candidate against the parsed metadata and
// returns the ranked outcome. Sorting is stable: ties keep the original
// candidate order. Candidates at or below the rejection threshold stay
// visible in Alternatives but are never selected as the winner.
func FindMatchingLibrary(parsed parsing.ParsedFilename, libraries []library.Library, grammar parsing.Grammar, weights Weights) (LibraryMatch, error) {
	if len(libraries) == 0 {
		return LibraryMatch{}, ErrNoCandidates
	}
	w := weights.normalized()

	scored := make([]ScoredLibrary, 0, len(libraries))
	for _, lib := range libraries {
		breakdown := ScoreLibrary(parsed, lib.Name, grammar, w)
		scored = append(scored, ScoredLibrary{Library: lib, Score: breakdown.Total, Breakdown: breakdown})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	match := LibraryMatch{}
	if len(scored) > w.MaxAlternatives {
		match.Alternatives = scored[:w.MaxAlternatives]
	} else {
		match.Alternatives = scored
	}

	if top := scored[0]; top.Score > w.RejectionThreshold {
		lib := top.Library
		match.Best = &lib
		match.Confidence = top.Score
	}
	return match, nil
}

// Suggestions returns up to MaxAlternatives libraries scoring above the
// suggestion floor, for operator review when no match auto-applies.
func Suggestions(match LibraryMatch, weights Weights) []ScoredLibrary {
	w := weights.normalized()
	suggestions := make([]ScoredLibrary, 0, w.MaxAlternatives)
	for _, candidate := range match.Alternatives {
		if candidate.Score <= w.SuggestionFloor {
			continue
		}
		suggestions = append(suggestions, candidate)
		if len(suggestions) == w.MaxAlternatives {
			break
		}
	}
	return suggestions
}
