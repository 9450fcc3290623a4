package moderation

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

const (
	nameMinLength    = 3
	nameMaxLength    = 100
	addressMinLength = 10
	addressMaxLength = 500
	minTextLength    = 2
	maxRepeatedRun   = 4
)

var supportedLetter = regexp.MustCompile(`[\p{Latin}\p{Arabic}]`)

// Gate decides whether free text is clean, needs review, or must be rejected.
// It is safe for concurrent use; Replace swaps the rule set atomically.
type Gate struct {
	mu       sync.RWMutex
	words    []string
	patterns []*regexp.Regexp
}

func NewGate(rules Rules) (*Gate, error) {
	g := &Gate{}
	if err := g.Replace(rules); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gate) Replace(rules Rules) error {
	patterns, err := compilePatterns(rules.SuspiciousPatterns)
	if err != nil {
		return err
	}

	words := make([]string, 0, len(rules.BadWords))
	for _, word := range rules.BadWords {
		if folded := fold(strings.TrimSpace(word)); folded != "" {
			words = append(words, folded)
		}
	}

	g.mu.Lock()
	g.words = words
	g.patterns = patterns
	g.mu.Unlock()
	return nil
}

// ContainsBadWords is a plain substring check; word boundaries are deliberately ignored.
func (g *Gate) ContainsBadWords(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	folded := fold(text)

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, word := range g.words {
		if strings.Contains(folded, word) {
			return true
		}
	}
	return false
}

func (g *Gate) IsSuspicious(text string) bool {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minTextLength {
		return true
	}
	if hasRepeatedRun(text, maxRepeatedRun) {
		return true
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, pattern := range g.patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func (g *Gate) IsValidName(text string) bool {
	return g.isValidText(text, nameMinLength, nameMaxLength)
}

func (g *Gate) IsValidAddress(text string) bool {
	return g.isValidText(text, addressMinLength, addressMaxLength)
}

func (g *Gate) isValidText(text string, minLen, maxLen int) bool {
	text = strings.TrimSpace(text)
	length := utf8.RuneCountInString(text)
	if length < minLen || length > maxLen {
		return false
	}
	if !supportedLetter.MatchString(text) {
		return false
	}
	if g.ContainsBadWords(text) {
		return false
	}
	return !g.IsSuspicious(text)
}

// hasRepeatedRun reports a run of n or more identical runes, ignoring case.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range text {
		r = unicode.ToLower(r)
		if run > 0 && r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run >= n && !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

func fold(text string) string {
	return cases.Fold().String(width.Fold.String(text))
}
