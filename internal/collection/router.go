package collection

import (
	"fmt"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
)

// DefaultTerm is used when no term was parsed from the filename.
const DefaultTerm = "T1"

// Route names the destination sub-collection for an upload and explains why.
type Route struct {
	Name   string
	Reason string
}

// Determine derives the destination collection from the parsed metadata and
// the reference academic year. Parser failures short-circuit to a dedicated
// error collection so broken filenames never land in a term collection.
func Determine(parsed parsing.ParsedFilename, year string) Route {
	if parsed.AcademicYear == parsing.YearError {
		return Route{
			Name:   "ParsingError-" + year,
			Reason: "filename could not be parsed; routed to the error collection for manual triage",
		}
	}

	term := parsed.Term
	if term == "" {
		term = DefaultTerm
	}

	revision := parsed.ContentType.IsRevision()
	question := parsed.ContentType.IsQuestion()

	switch {
	case revision && question:
		return Route{
			Name:   fmt.Sprintf("RE-%s-%s-QV", term, year),
			Reason: "revision content with question markers",
		}
	case revision:
		return Route{
			Name:   "RE-" + year,
			Reason: "revision content",
		}
	case question:
		return Route{
			Name:   fmt.Sprintf("%s-%s-QV", term, year),
			Reason: "question content for term " + term,
		}
	default:
		return Route{
			Name:   fmt.Sprintf("%s-%s", term, year),
			Reason: "standard content for term " + term,
		}
	}
}
