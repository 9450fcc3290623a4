package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesAreLoaded(t *testing.T) {
	rules := DefaultRules()
	assert.NotEmpty(t, rules.BadWords)
	assert.NotEmpty(t, rules.SuspiciousPatterns)
}

func TestLoadRulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "bad_words:\n  - rotten\nsuspicious_patterns:\n  - '^x+$'\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"rotten"}, rules.BadWords)
	assert.Equal(t, []string{"^x+$"}, rules.SuspiciousPatterns)
}

func TestLoadRulesErrors(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = ParseRules([]byte("bad_words: [unterminated"))
	require.Error(t, err)

	_, err = ParseRules([]byte("suspicious_patterns:\n  - '(?P<broken'\n"))
	require.Error(t, err)
}
