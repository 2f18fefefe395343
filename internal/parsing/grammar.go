package parsing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
)

// Track identifies one of the two mutually exclusive curriculum tracks.
type Track string

const (
	TrackNone Track = ""
	TrackA    Track = "TRACK_A"
	TrackB    Track = "TRACK_B"
)

// Sentinel values for AcademicYear when no level token could be resolved.
const (
	YearUnknown = "Unknown"
	YearError   = "Error"
)

// Grammar holds the compiled token patterns and closed enumerations the
// parser scans for. Build one with NewGrammar; the zero value matches nothing.
type Grammar struct {
	levelPattern   *regexp.Regexp
	levelPrefix    *regexp.Regexp
	teacherPattern *regexp.Regexp
	teacherPrefix  string
	branchSet      map[string]string
	conflictBranch string
	conflictOther  string
	trackA         string
	trackB         string
	termPattern    *regexp.Regexp
	unitPattern    *regexp.Regexp
	lessonPattern  *regexp.Regexp
	classPattern   *regexp.Regexp
}

// NewGrammar compiles the configured enumerations into a Grammar.
func NewGrammar(cfg config.Grammar) (Grammar, error) {
	letters := strings.Join(cfg.LevelLetters, "")
	if letters == "" {
		return Grammar{}, fmt.Errorf("grammar: no level letters configured")
	}
	prefix := strings.ToUpper(strings.TrimSpace(cfg.TeacherPrefix))
	if len(prefix) != 1 {
		return Grammar{}, fmt.Errorf("grammar: teacher prefix %q must be a single letter", cfg.TeacherPrefix)
	}

	levelPattern, err := regexp.Compile(fmt.Sprintf(`(?i)^[%s][1-6]$`, letters))
	if err != nil {
		return Grammar{}, fmt.Errorf("grammar: compile level pattern: %w", err)
	}
	levelPrefix, err := regexp.Compile(fmt.Sprintf(`(?i)^([%s][1-6])`, letters))
	if err != nil {
		return Grammar{}, fmt.Errorf("grammar: compile level prefix pattern: %w", err)
	}
	teacherPattern, err := regexp.Compile(fmt.Sprintf(`(?i)^%s[-_ ]?(\d{4})$`, regexp.QuoteMeta(prefix)))
	if err != nil {
		return Grammar{}, fmt.Errorf("grammar: compile teacher pattern: %w", err)
	}

	branches := make(map[string]string, len(cfg.BranchCodes))
	for _, code := range cfg.BranchCodes {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if normalized == "" {
			continue
		}
		branches[normalized] = normalized
	}

	return Grammar{
		levelPattern:   levelPattern,
		levelPrefix:    levelPrefix,
		teacherPattern: teacherPattern,
		teacherPrefix:  prefix,
		branchSet:      branches,
		conflictBranch: strings.ToUpper(strings.TrimSpace(cfg.ConflictBranch)),
		conflictOther:  strings.ToUpper(strings.TrimSpace(cfg.ConflictOther)),
		trackA:         strings.ToUpper(strings.TrimSpace(cfg.TrackAKeyword)),
		trackB:         strings.ToUpper(strings.TrimSpace(cfg.TrackBKeyword)),
		termPattern:    regexp.MustCompile(`(?i)^T[12]$`),
		unitPattern:    regexp.MustCompile(`(?i)^U\d+$`),
		lessonPattern:  regexp.MustCompile(`(?i)^L\d+$`),
		classPattern:   regexp.MustCompile(`(?i)^C\d+$`),
	}, nil
}

// DefaultGrammar compiles the repository default enumerations. It panics on
// compile failure, which cannot happen with the built-in defaults.
func DefaultGrammar() Grammar {
	g, err := NewGrammar(config.Default().Grammar)
	if err != nil {
		panic(err)
	}
	return g
}

// TrackKeyword returns the configured keyword for a track, empty for TrackNone.
func (g Grammar) TrackKeyword(track Track) string {
	switch track {
	case TrackA:
		return g.trackA
	case TrackB:
		return g.trackB
	default:
		return ""
	}
}

// TrackKeywords returns both configured track keywords (track A first).
func (g Grammar) TrackKeywords() (string, string) {
	return g.trackA, g.trackB
}

// ConflictPair returns the two subject codes whose co-occurrence marks a
// branch conflict.
func (g Grammar) ConflictPair() (string, string) {
	return g.conflictBranch, g.conflictOther
}

func (g Grammar) matchBranch(token string) (string, bool) {
	code, ok := g.branchSet[strings.ToUpper(token)]
	return code, ok
}

func (g Grammar) matchTrack(token string) (Track, bool) {
	upper := strings.ToUpper(token)
	switch upper {
	case g.trackA:
		return TrackA, g.trackA != ""
	case g.trackB:
		return TrackB, g.trackB != ""
	default:
		return TrackNone, false
	}
}

// structuralIdentPattern matches short structural identifiers: a single
// letter followed by digits (T2, U13, L4, C1, ...).
var structuralIdentPattern = regexp.MustCompile(`^[A-Za-z]\d+$`)

func isStructuralIdentifier(token string) bool {
	return structuralIdentPattern.MatchString(token)
}
