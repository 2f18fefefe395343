package matching

import (
	"testing"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/library"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
)

func matchFor(name string, confidence int) LibraryMatch {
	lib := library.Library{ID: 1, Name: name}
	return LibraryMatch{Best: &lib, Confidence: confidence}
}

func TestDecideHighConfidence(t *testing.T) {
	d := Decide(parsing.ParsedFilename{}, matchFor("anything", 75), testGrammar(t), DefaultWeights())
	if !d.AutoApply || d.Reason != "confidence" {
		t.Errorf("Decide = %+v, want confidence auto-apply", d)
	}
}

func TestDecideTeacherCodeVerbatim(t *testing.T) {
	parsed := parsing.ParsedFilename{TeacherCode: "P0078"}
	d := Decide(parsed, matchFor("M2-SCI-P0078 Mr John", 10), testGrammar(t), DefaultWeights())
	if !d.AutoApply || d.Reason != "teacher_code" {
		t.Errorf("Decide = %+v, want teacher_code auto-apply regardless of confidence", d)
	}
}

func TestDecideTrackConfidence(t *testing.T) {
	parsed := parsing.ParsedFilename{TrackType: parsing.TrackA}
	grammar := testGrammar(t)

	d := Decide(parsed, matchFor("S3-PURE-MATH", 70), grammar, DefaultWeights())
	if !d.AutoApply || d.Reason != "track_confidence" {
		t.Errorf("Decide = %+v, want track_confidence", d)
	}

	// Same setup one point below the track gate falls through to the special
	// track rule, which still accepts at 65.
	d = Decide(parsed, matchFor("S3-PURE-MATH", 69), grammar, DefaultWeights())
	if !d.AutoApply || d.Reason != "special:track_keyword" {
		t.Errorf("Decide = %+v, want special track rule", d)
	}

	d = Decide(parsed, matchFor("S3-PURE-MATH", 64), grammar, DefaultWeights())
	if d.AutoApply {
		t.Errorf("Decide = %+v, want manual selection below every track gate", d)
	}
}

func TestDecideYearBranchNameRule(t *testing.T) {
	parsed := parsing.ParsedFilename{
		AcademicYear: "M2",
		Branch:       "SCI",
		TeacherName:  "John Smith",
	}
	grammar := testGrammar(t)

	d := Decide(parsed, matchFor("M2-SCI Mr Ahmed", 60), grammar, DefaultWeights())
	if !d.AutoApply || d.Reason != "special:year_branch_name" {
		t.Errorf("Decide = %+v, want year+branch special rule", d)
	}

	noName := parsing.ParsedFilename{AcademicYear: "M2", Branch: "SCI"}
	d = Decide(noName, matchFor("M2-SCI Mr Ahmed", 60), grammar, DefaultWeights())
	if d.AutoApply {
		t.Errorf("Decide = %+v, rule requires a teacher name", d)
	}
}

func TestDecideBranchConflictRule(t *testing.T) {
	parsed := parsing.ParsedFilename{
		AcademicYear:      "M2",
		Branch:            "SCI",
		SecondaryBranch:   "AR",
		HasBranchConflict: true,
	}
	grammar := testGrammar(t)

	d := Decide(parsed, matchFor("M2-SCI Mr Ahmed", 55), grammar, DefaultWeights())
	if !d.AutoApply || d.Reason != "special:branch_conflict" {
		t.Errorf("Decide = %+v, want branch conflict special rule", d)
	}

	// Library name must start with the academic year.
	d = Decide(parsed, matchFor("SCI-M2 Mr Ahmed", 55), grammar, DefaultWeights())
	if d.AutoApply {
		t.Errorf("Decide = %+v, name must start with the year", d)
	}

	d = Decide(parsed, matchFor("M2-EN Mr Ahmed", 55), grammar, DefaultWeights())
	if d.AutoApply {
		t.Errorf("Decide = %+v, name must carry one of the conflicting subjects", d)
	}
}

func TestDecideNoWinner(t *testing.T) {
	d := Decide(parsing.ParsedFilename{}, LibraryMatch{}, testGrammar(t), DefaultWeights())
	if d.AutoApply {
		t.Error("no winner must never auto-apply")
	}
}
