package collection

import (
	"testing"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
)

func TestDetermineDecisionTable(t *testing.T) {
	cases := []struct {
		name    string
		content parsing.ContentType
		term    string
		want    string
	}{
		{"standard with term", parsing.ContentStandard, "T2", "T2-2026"},
		{"standard default term", parsing.ContentStandard, "", "T1-2026"},
		{"question", parsing.ContentQuestion, "T2", "T2-2026-QV"},
		{"revision", parsing.ContentRevision, "T2", "RE-2026"},
		{"revision with question", parsing.ContentRevision | parsing.ContentQuestion, "T2", "RE-T2-2026-QV"},
		{"revision with question default term", parsing.ContentRevision | parsing.ContentQuestion, "", "RE-T1-2026-QV"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := parsing.ParsedFilename{
				AcademicYear: "M2",
				ContentType:  tc.content,
				Term:         tc.term,
			}
			route := Determine(parsed, "2026")
			if route.Name != tc.want {
				t.Errorf("Name = %q, want %q", route.Name, tc.want)
			}
			if route.Reason == "" {
				t.Error("Reason must not be empty")
			}
		})
	}
}

func TestDetermineParserFailureShortCircuits(t *testing.T) {
	parsed := parsing.ParsedFilename{
		AcademicYear: parsing.YearError,
		ContentType:  parsing.ContentRevision,
		Term:         "T2",
	}
	route := Determine(parsed, "2026")
	if route.Name != "ParsingError-2026" {
		t.Errorf("Name = %q, want ParsingError-2026", route.Name)
	}
}
