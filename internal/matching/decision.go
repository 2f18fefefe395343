package matching

import (
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
)

// Decision is the auto-apply verdict for a match. Reason names the gate that
// accepted the match, or is empty when manual selection is required.
type Decision struct {
	AutoApply bool
	Reason    string
}

// specialRule is one low-confidence override check. Rules are evaluated in
// order only after the primary gates decline; any one passing is sufficient.
type specialRule struct {
	name  string
	check func(parsed parsing.ParsedFilename, name string, confidence int, grammar parsing.Grammar, w Weights) bool
}

var specialRules = []specialRule{
	{name: "track_keyword", check: specialTrackKeyword},
	{name: "teacher_code", check: specialTeacherCode},
	{name: "year_branch_name", check: specialYearBranchName},
	{name: "branch_conflict", check: specialBranchConflict},
}

// Decide applies the auto-apply gates to a match outcome. The decision layer
// is separate from scoring so the orchestrator can re-evaluate a match after
// cache hits without rescoring.
func Decide(parsed parsing.ParsedFilename, match LibraryMatch, grammar parsing.Grammar, weights Weights) Decision {
	if match.Best == nil {
		return Decision{}
	}
	w := weights.normalized()
	name := match.Best.Name
	confidence := match.Confidence

	if confidence >= w.AutoApplyConfidence {
		return Decision{AutoApply: true, Reason: "confidence"}
	}
	if parsed.TeacherCode != "" && containsFold(name, parsed.TeacherCode) {
		return Decision{AutoApply: true, Reason: "teacher_code"}
	}
	if parsed.TrackType != parsing.TrackNone &&
		confidence >= w.TrackAutoConfidence &&
		containsFold(name, grammar.TrackKeyword(parsed.TrackType)) {
		return Decision{AutoApply: true, Reason: "track_confidence"}
	}

	for _, rule := range specialRules {
		if rule.check(parsed, name, confidence, grammar, w) {
			return Decision{AutoApply: true, Reason: "special:" + rule.name}
		}
	}
	return Decision{}
}

func specialTrackKeyword(parsed parsing.ParsedFilename, name string, confidence int, grammar parsing.Grammar, w Weights) bool {
	if parsed.TrackType == parsing.TrackNone {
		return false
	}
	return confidence >= w.SpecialTrackConfidence && containsFold(name, grammar.TrackKeyword(parsed.TrackType))
}

func specialTeacherCode(parsed parsing.ParsedFilename, name string, confidence int, grammar parsing.Grammar, w Weights) bool {
	if parsed.TeacherCode == "" {
		return false
	}
	return confidence >= w.SpecialTeacherConfidence && containsFold(name, parsed.TeacherCode)
}

func specialYearBranchName(parsed parsing.ParsedFilename, name string, confidence int, grammar parsing.Grammar, w Weights) bool {
	if confidence < w.SpecialYearBranchConfidence || parsed.TeacherName == "" {
		return false
	}
	segments := nameSegments(name)
	return yearInName(parsed.AcademicYear, name, segments) && branchInName(parsed.Branch, name, segments)
}

// specialBranchConflict accepts ambiguous two-subject filenames when the
// library clearly belongs to the same academic year and carries either of the
// conflicting subject codes.
func specialBranchConflict(parsed parsing.ParsedFilename, name string, confidence int, grammar parsing.Grammar, w Weights) bool {
	if !parsed.HasBranchConflict || confidence < w.SpecialConflictConfidence {
		return false
	}
	if parsed.AcademicYear == "" || parsed.AcademicYear == parsing.YearUnknown || parsed.AcademicYear == parsing.YearError {
		return false
	}
	if !hasPrefixFold(name, parsed.AcademicYear) {
		return false
	}
	conflictBranch, conflictOther := grammar.ConflictPair()
	segments := nameSegments(name)
	return segmentPresent(segments, conflictBranch) || segmentPresent(segments, conflictOther)
}
