package matchcache

import (
	"sort"
	"strings"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/parsing"
)

// Key construction is deterministic: field order is always year, track,
// branch, teacher, with empty slots preserved so the same parse always maps
// to the same key.

const keySeparator = "|"

// PrimaryKey derives the main pattern-cache key from parsed metadata.
func PrimaryKey(parsed parsing.ParsedFilename) string {
	return strings.Join([]string{
		yearField(parsed),
		string(parsed.TrackType),
		parsed.Branch,
		parsed.TeacherCode,
	}, keySeparator)
}

// EnhancedKey extends the primary key with term and content type. It is only
// recorded when the parse carries at least two significant fields; callers
// check SignificantFields first.
func EnhancedKey(parsed parsing.ParsedFilename) string {
	return PrimaryKey(parsed) + keySeparator + parsed.Term + keySeparator + parsed.ContentType.String()
}

// AlternateKeys derives relaxed variants of the primary key, each omitting
// one populated field. Matches stored under these keys carry reduced
// confidence.
func AlternateKeys(parsed parsing.ParsedFilename) []string {
	var keys []string
	if parsed.TeacherCode != "" {
		relaxed := parsed
		relaxed.TeacherCode = ""
		keys = append(keys, PrimaryKey(relaxed))
	}
	if parsed.TrackType != parsing.TrackNone {
		relaxed := parsed
		relaxed.TrackType = parsing.TrackNone
		keys = append(keys, PrimaryKey(relaxed))
	}
	if parsed.Branch != "" {
		relaxed := parsed
		relaxed.Branch = ""
		keys = append(keys, PrimaryKey(relaxed))
	}
	return keys
}

// ConflictKey derives the cache key used only for two-subject conflict
// filenames. Returns empty when the parse has no conflict.
func ConflictKey(parsed parsing.ParsedFilename) string {
	if !parsed.HasBranchConflict {
		return ""
	}
	return strings.Join([]string{
		"conflict",
		yearField(parsed),
		parsed.Branch + "+" + parsed.SecondaryBranch,
		parsed.TeacherCode,
	}, keySeparator)
}

// SignificantFields counts the populated high-signal fields of a parse.
func SignificantFields(parsed parsing.ParsedFilename) int {
	count := 0
	if yearField(parsed) != "" {
		count++
	}
	if parsed.TrackType != parsing.TrackNone {
		count++
	}
	if parsed.Branch != "" {
		count++
	}
	if parsed.TeacherCode != "" {
		count++
	}
	return count
}

// LearningKey derives the keyword-set key for manually-corrected filenames:
// the significant tokens (longer than two characters, non-numeric),
// lowercased, sorted, and joined. Filenames sharing the same keyword set
// share the learned mapping.
func LearningKey(filename string) string {
	tokens, _ := parsing.Normalize(filename)
	keywords := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if len([]rune(token)) <= 2 || isNumeric(token) {
			continue
		}
		lowered := strings.ToLower(token)
		if _, dup := seen[lowered]; dup {
			continue
		}
		seen[lowered] = struct{}{}
		keywords = append(keywords, lowered)
	}
	if len(keywords) == 0 {
		return ""
	}
	sort.Strings(keywords)
	return strings.Join(keywords, "+")
}

func yearField(parsed parsing.ParsedFilename) string {
	switch parsed.AcademicYear {
	case "", parsing.YearUnknown, parsing.YearError:
		return ""
	default:
		return parsed.AcademicYear
	}
}

func isNumeric(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
