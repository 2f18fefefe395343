package parsing

import (
	"strings"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
)

// ParsedFilename is the structured metadata derived from a single filename.
// It is produced fresh per file and never mutated afterwards; parsing is pure
// and idempotent given the same input and grammar.
type ParsedFilename struct {
	ContentType           ContentType
	AcademicYear          string
	TrackType             Track
	Branch                string
	SecondaryBranch       string
	TeacherCode           string
	TeacherName           string
	Term                  string
	Unit                  string
	Lesson                string
	ClassNum              string
	SecondaryLanguageText string
	HasBranchConflict     bool
	OriginalFilename      string
}

// Parser scans normalized filename tokens against the compiled grammar and
// the year-keyed term table.
type Parser struct {
	grammar Grammar
	terms   func(year string) []string
}

// NewParser builds a Parser from application configuration.
func NewParser(cfg *config.Config) (*Parser, error) {
	grammar, err := NewGrammar(cfg.Grammar)
	if err != nil {
		return nil, err
	}
	return &Parser{grammar: grammar, terms: cfg.TermsForYear}, nil
}

// NewParserWithGrammar builds a Parser with an explicit grammar and no
// per-year term restrictions. Intended for tests and embedding callers.
func NewParserWithGrammar(grammar Grammar) *Parser {
	return &Parser{grammar: grammar}
}

// Grammar returns the compiled grammar the parser scans with.
func (p *Parser) Grammar() Grammar { return p.grammar }

// Parse converts a raw filename into a ParsedFilename. Any unexpected panic
// during scanning yields the minimal error record; parse problems never
// propagate to the caller.
func (p *Parser) Parse(filename, year string) (parsed ParsedFilename) {
	defer func() {
		if r := recover(); r != nil {
			parsed = ParsedFilename{
				ContentType:      ContentStandard,
				AcademicYear:     YearError,
				OriginalFilename: filename,
			}
		}
	}()
	return p.parse(filename, year)
}

// scanState accumulates per-token findings during the single-pass scan.
type scanState struct {
	grammar    Grammar
	tokens     []string
	result     ParsedFilename
	teacherIdx int
	levelIdx   int
	branchIdxs []int
	seenBranch map[string]bool
	structural map[int]bool
}

// tokenRule is one entry in the ordered classification table. Apply returns
// true when the rule consumed the token; later rules are then skipped.
type tokenRule struct {
	name  string
	apply func(s *scanState, idx int, token string) bool
}

// arabicClassMarker is the Arabic word for "class/session" that precedes a
// class number in bilingual filenames.
const arabicClassMarker = "الحصة"

// tokenRules is evaluated in fixed order per token. The grammars are disjoint
// by construction, so at most one rule consumes any given token.
var tokenRules = []tokenRule{
	{name: "teacher_code", apply: applyTeacherCode},
	{name: "academic_year", apply: applyAcademicYear},
	{name: "track_type", apply: applyTrackType},
	{name: "branch", apply: applyBranch},
	{name: "term", apply: applyTerm},
	{name: "unit", apply: applyUnit},
	{name: "lesson", apply: applyLesson},
	{name: "class", apply: applyClass},
}

func (p *Parser) parse(filename, year string) ParsedFilename {
	tokens, secondaryText := Normalize(filename)

	s := &scanState{
		grammar:    p.grammar,
		tokens:     tokens,
		teacherIdx: -1,
		levelIdx:   -1,
		seenBranch: make(map[string]bool),
		structural: make(map[int]bool),
	}
	s.result.OriginalFilename = filename
	s.result.SecondaryLanguageText = secondaryText

	for idx, token := range tokens {
		for _, rule := range tokenRules {
			if rule.apply(s, idx, token) {
				break
			}
		}
	}

	s.result.ContentType = classifyContent(filename, tokens, secondaryText)

	conflictBranch, conflictOther := p.grammar.ConflictPair()
	if s.seenBranch[conflictBranch] && s.seenBranch[conflictOther] {
		s.result.HasBranchConflict = true
	}

	s.result.TeacherName = extractTeacherName(s)
	s.result.AcademicYear = resolveAcademicYear(s)

	if s.result.Term != "" && !validTerm(s.result.Term, p.termsFor(year)) {
		s.result.Term = ""
	}

	return s.result
}

func (p *Parser) termsFor(year string) []string {
	if p.terms == nil {
		return nil
	}
	return p.terms(year)
}

func validTerm(term string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, term) {
			return true
		}
	}
	return false
}

func applyTeacherCode(s *scanState, idx int, token string) bool {
	match := s.grammar.teacherPattern.FindStringSubmatch(token)
	if match == nil {
		return false
	}
	if s.result.TeacherCode == "" {
		s.result.TeacherCode = s.grammar.teacherPrefix + match[1]
		s.teacherIdx = idx
	}
	return true
}

func applyAcademicYear(s *scanState, idx int, token string) bool {
	if !s.grammar.levelPattern.MatchString(token) {
		return false
	}
	if s.result.AcademicYear == "" {
		s.result.AcademicYear = strings.ToUpper(token)
		s.levelIdx = idx
	}
	return true
}

func applyTrackType(s *scanState, idx int, token string) bool {
	track, ok := s.grammar.matchTrack(token)
	if !ok {
		return false
	}
	// First occurrence wins.
	if s.result.TrackType == TrackNone {
		s.result.TrackType = track
	}
	return true
}

func applyBranch(s *scanState, idx int, token string) bool {
	code, ok := s.grammar.matchBranch(token)
	if !ok {
		return false
	}
	s.branchIdxs = append(s.branchIdxs, idx)
	s.seenBranch[code] = true
	switch {
	case s.result.Branch == "":
		s.result.Branch = code
	case code != s.result.Branch && s.result.SecondaryBranch == "":
		s.result.SecondaryBranch = code
	}
	return true
}

func applyTerm(s *scanState, idx int, token string) bool {
	if !s.grammar.termPattern.MatchString(token) {
		return false
	}
	if s.result.Term == "" {
		s.result.Term = strings.ToUpper(token)
	}
	s.structural[idx] = true
	return true
}

func applyUnit(s *scanState, idx int, token string) bool {
	if !s.grammar.unitPattern.MatchString(token) {
		return false
	}
	if s.result.Unit == "" {
		s.result.Unit = strings.ToUpper(token)
	}
	s.structural[idx] = true
	return true
}

func applyLesson(s *scanState, idx int, token string) bool {
	if !s.grammar.lessonPattern.MatchString(token) {
		return false
	}
	if s.result.Lesson == "" {
		s.result.Lesson = strings.ToUpper(token)
	}
	s.structural[idx] = true
	return true
}

func applyClass(s *scanState, idx int, token string) bool {
	if s.grammar.classPattern.MatchString(token) {
		if s.result.ClassNum == "" {
			s.result.ClassNum = strings.ToUpper(token)
		}
		s.structural[idx] = true
		return true
	}
	if token == arabicClassMarker && idx+1 < len(s.tokens) && isDigits(s.tokens[idx+1]) {
		if s.result.ClassNum == "" {
			s.result.ClassNum = "C" + s.tokens[idx+1]
		}
		s.structural[idx] = true
		s.structural[idx+1] = true
		return true
	}
	return false
}

func isDigits(token string) bool {
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
