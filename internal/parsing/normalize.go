package parsing

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	bracePattern     = regexp.MustCompile(`\{([^{}]*)\}`)
	separatorPattern = regexp.MustCompile(`\s*[-_][\s_-]*`)
)

// Normalize strips the extension, extracts the first brace-enclosed region as
// secondary-language text, collapses separator runs, and splits the remainder
// into tokens. A name without separators degrades to a single token.
func Normalize(filename string) (tokens []string, secondaryText string) {
	name := strings.TrimSpace(filename)
	if ext := filepath.Ext(name); ext != "" && len(ext) <= 6 {
		name = strings.TrimSuffix(name, ext)
	}

	if loc := bracePattern.FindStringSubmatchIndex(name); loc != nil {
		secondaryText = strings.TrimSpace(name[loc[2]:loc[3]])
		secondaryText = norm.NFC.String(secondaryText)
		name = name[:loc[0]] + name[loc[1]:]
	}

	name = separatorPattern.ReplaceAllString(name, "-")
	for _, part := range strings.Split(name, "-") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens, secondaryText
}
