package matching

import (
	"strings"
	"unicode"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
)

// Contribution records one scoring rule's points for a candidate.
type Contribution struct {
	Rule   string
	Points int
}

// Breakdown is the per-rule scoring trace for a candidate library. It is a
// first-class return value so tests and operators can inspect why a library
// scored the way it did.
type Breakdown struct {
	Contributions []Contribution
	Raw           int
	Total         int
}

func (b *Breakdown) add(rule string, points int) {
	if points == 0 {
		return
	}
	b.Contributions = append(b.Contributions, Contribution{Rule: rule, Points: points})
	b.Raw += points
}

// ScoreLibrary computes the additive match score of one candidate library
// name against parsed filename metadata. Each rule is independent; the sum is
// clamped to [ClampFloor, ClampCeiling].
func ScoreLibrary(parsed parsing.ParsedFilename, name string, grammar parsing.Grammar, weights Weights) Breakdown {
	w := weights.normalized()
	segments := nameSegments(name)

	var b Breakdown

	if parsed.TeacherCode != "" && containsFold(name, parsed.TeacherCode) {
		b.add("teacher_code", w.TeacherCodeBonus)
	}

	if yearInName(parsed.AcademicYear, name, segments) {
		b.add("academic_year", w.YearBonus)
	}

	b.add("track", trackPoints(parsed.TrackType, segments, grammar, w))

	if branchInName(parsed.Branch, name, segments) {
		b.add("branch", w.BranchBonus)
	}

	if nameFragmentInName(parsed.TeacherName, name) {
		b.add("teacher_name", w.NameFragmentBonus)
	}

	b.Total = clamp(b.Raw, w.ClampFloor, w.ClampCeiling)
	return b
}

// trackPoints implements the highest-weight scoring rule. With a parsed track
// present, an exact keyword match beats an ambiguous both-keyword library and
// the opposite keyword is penalized. With no parsed track, unspecialized
// libraries are preferred.
func trackPoints(track parsing.Track, segments []string, grammar parsing.Grammar, w Weights) int {
	kwA, kwB := grammar.TrackKeywords()
	hasA := segmentPresent(segments, kwA)
	hasB := segmentPresent(segments, kwB)

	if track == parsing.TrackNone {
		if !hasA && !hasB {
			return w.TrackNeutralBonus
		}
		return w.TrackSpecializedBonus
	}

	wantA := track == parsing.TrackA
	matching := (wantA && hasA) || (!wantA && hasB)
	opposite := (wantA && hasB) || (!wantA && hasA)

	switch {
	case matching && !opposite:
		return w.TrackExactBonus
	case matching && opposite:
		return w.TrackBothBonus
	case opposite:
		return w.TrackOppositePenalty
	default:
		return 0
	}
}

func yearInName(year, name string, segments []string) bool {
	if year == "" || year == parsing.YearUnknown || year == parsing.YearError {
		return false
	}
	if hasPrefixFold(name, year) {
		return true
	}
	return segmentPresent(segments, year)
}

func branchInName(branch, name string, segments []string) bool {
	if branch == "" {
		return false
	}
	if hasPrefixFold(name, branch) {
		return true
	}
	return segmentPresent(segments, branch)
}

// nameFragmentInName reports whether any teacher-name token longer than two
// characters appears as a substring of the library name.
func nameFragmentInName(teacherName, name string) bool {
	if teacherName == "" {
		return false
	}
	for _, fragment := range strings.Fields(teacherName) {
		if len([]rune(fragment)) <= 2 {
			continue
		}
		if containsFold(name, fragment) {
			return true
		}
	}
	return false
}

// nameSegments splits a library name into delimited alphanumeric segments.
func nameSegments(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func segmentPresent(segments []string, value string) bool {
	if value == "" {
		return false
	}
	for _, segment := range segments {
		if strings.EqualFold(segment, value) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToUpper(haystack), strings.ToUpper(needle))
}

func hasPrefixFold(haystack, prefix string) bool {
	return strings.HasPrefix(strings.ToUpper(haystack), strings.ToUpper(prefix))
}

func clamp(value, floor, ceiling int) int {
	if value < floor {
		return floor
	}
	if value > ceiling {
		return ceiling
	}
	return value
}
