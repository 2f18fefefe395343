package parsing

import (
	"strings"
	"unicode"
)

// Teacher-name extraction and academic-year resolution are explicit ordered
// strategy lists: each strategy returns an optional result and the first
// non-empty one wins.

type nameStrategy func(s *scanState) string

var nameStrategies = []nameStrategy{
	nameAfterTeacherCode,
	nameAfterLastBranch,
	nameFromTrailingToken,
}

func extractTeacherName(s *scanState) string {
	for _, strategy := range nameStrategies {
		if name := strategy(s); name != "" {
			return name
		}
	}
	return ""
}

// nameAfterTeacherCode takes everything after the teacher code, minus
// structural identifiers and bare numbers.
func nameAfterTeacherCode(s *scanState) string {
	if s.teacherIdx < 0 {
		return ""
	}
	return joinNameTokens(s, s.teacherIdx+1)
}

// nameAfterLastBranch applies when both a level and at least one branch were
// found: the name is whatever follows the last branch token.
func nameAfterLastBranch(s *scanState) string {
	if s.levelIdx < 0 || len(s.branchIdxs) == 0 {
		return ""
	}
	last := s.branchIdxs[len(s.branchIdxs)-1]
	return joinNameTokens(s, last+1)
}

// nameFromTrailingToken scans from the end for the last token that is not a
// structural identifier and contains at least one letter.
func nameFromTrailingToken(s *scanState) string {
	for i := len(s.tokens) - 1; i >= 0; i-- {
		token := s.tokens[i]
		if s.structural[i] || isStructuralIdentifier(token) {
			continue
		}
		if containsLetter(token) {
			return token
		}
	}
	return ""
}

func joinNameTokens(s *scanState, start int) string {
	var parts []string
	for i := start; i < len(s.tokens); i++ {
		token := s.tokens[i]
		if s.structural[i] || isStructuralIdentifier(token) || isDigits(token) {
			continue
		}
		parts = append(parts, token)
	}
	return strings.Join(parts, " ")
}

func containsLetter(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

type yearStrategy func(s *scanState) string

var yearStrategies = []yearStrategy{
	yearFromScan,
	yearFromFirstTokenPrefix,
}

func resolveAcademicYear(s *scanState) string {
	for _, strategy := range yearStrategies {
		if year := strategy(s); year != "" {
			return year
		}
	}
	return YearUnknown
}

func yearFromScan(s *scanState) string {
	return s.result.AcademicYear
}

// yearFromFirstTokenPrefix inspects the first token for a leading level match
// (e.g. "M2Algebra" yields "M2").
func yearFromFirstTokenPrefix(s *scanState) string {
	if len(s.tokens) == 0 {
		return ""
	}
	match := s.grammar.levelPrefix.FindStringSubmatch(s.tokens[0])
	if match == nil {
		return ""
	}
	return strings.ToUpper(match[1])
}
