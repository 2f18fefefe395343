package parsing

import (
	"regexp"
	"strings"
)

// ContentType classifies a file as standard, revision, question, or a
// combination of revision and question. The two flags are detected
// independently; a revision file can also carry a question marker.
type ContentType uint8

const (
	ContentStandard ContentType = 0
	ContentRevision ContentType = 1 << 0
	ContentQuestion ContentType = 1 << 1
)

// IsRevision reports whether the revision flag is set.
func (c ContentType) IsRevision() bool { return c&ContentRevision != 0 }

// IsQuestion reports whether the question flag is set.
func (c ContentType) IsQuestion() bool { return c&ContentQuestion != 0 }

func (c ContentType) String() string {
	switch {
	case c.IsRevision() && c.IsQuestion():
		return "revision+question"
	case c.IsRevision():
		return "revision"
	case c.IsQuestion():
		return "question"
	default:
		return "standard"
	}
}

var (
	revisionWordPattern = regexp.MustCompile(`(?i)\brevision\b`)
	questionNumPattern  = regexp.MustCompile(`[Qq]\d+`)
	// Arabic question word ("سؤال", with or without the definite article)
	// followed by a number, as it appears in bilingual filenames.
	arabicQuestionPattern = regexp.MustCompile(`(?:ال)?سؤال[-_\s]*\d+`)
)

// classifyContent detects the revision and question flags from the original
// filename, its token sequence, and the secondary-language text.
func classifyContent(filename string, tokens []string, secondaryText string) ContentType {
	content := ContentStandard

	if revisionWordPattern.MatchString(filename) || hasFoldToken(tokens, "RE") {
		content |= ContentRevision
	}

	if questionNumPattern.MatchString(filename) || questionNumPattern.MatchString(secondaryText) {
		content |= ContentQuestion
	} else if arabicQuestionPattern.MatchString(filename) || arabicQuestionPattern.MatchString(secondaryText) {
		content |= ContentQuestion
	} else if hasFoldToken(tokens, "quiz") || hasFoldToken(tokens, "test") {
		// Whole-token match only: "math quiz for practice" arrives as a
		// single token and must not classify as a question.
		content |= ContentQuestion
	}

	return content
}

func hasFoldToken(tokens []string, want string) bool {
	for _, token := range tokens {
		if strings.EqualFold(token, want) {
			return true
		}
	}
	return false
}
