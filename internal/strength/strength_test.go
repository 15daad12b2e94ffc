package strength

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmptyPassword(t *testing.T) {
	assert.Nil(t, Analyze(""))
}

func TestAnalyzeScoring(t *testing.T) {
	tests := []struct {
		password string
		minScore int
		maxScore int
	}{
		{"a", 0, 0},
		{"password", 0, 0},       // common sequence penalty
		{"senha123", 0, 0},       // common sequence penalty
		{"Tr0ub4dor&3", 2, 3},
		{"correct-horse-battery-staple-99X!", 4, 4},
	}
	for _, tt := range tests {
		a := Analyze(tt.password)
		require.NotNil(t, a)
		assert.GreaterOrEqual(t, a.Score, tt.minScore, "password %q", tt.password)
		assert.LessOrEqual(t, a.Score, tt.maxScore, "password %q", tt.password)
		assert.Equal(t, labels[a.Score], a.Label)
	}
}

func TestAnalyzeOWASPMinimum(t *testing.T) {
	assert.True(t, Analyze("Abcdef1!").PassesOWASP)
	assert.False(t, Analyze("abcdef1!").PassesOWASP, "no uppercase")
	assert.False(t, Analyze("Abcdefg!").PassesOWASP, "no digit")
	assert.False(t, Analyze("Abc1!").PassesOWASP, "too short")
}

func TestAnalyzeWarnings(t *testing.T) {
	a := Analyze("xxxqwertyxxx")
	require.NotNil(t, a)
	assert.NotEmpty(t, a.Warnings, "common sequence should warn")

	a = Analyze("aaabZk19!!")
	found := false
	for _, w := range a.Warnings {
		if strings.Contains(w, "repeat") {
			found = true
		}
	}
	assert.True(t, found, "triple repeat should warn")
}

func TestAnalyzeSuggestions(t *testing.T) {
	a := Analyze("alllowercase")
	require.NotNil(t, a)
	joined := strings.Join(a.Suggestions, "\n")
	assert.Contains(t, joined, "uppercase")
	assert.Contains(t, joined, "digits")
	assert.Contains(t, joined, "symbols")
}

func TestAnalyzeEntropyGrowsWithLength(t *testing.T) {
	short := Analyze("abcd")
	long := Analyze("abcdabcdabcdabcd")
	assert.Greater(t, long.EntropyBits, short.EntropyBits)
}

func TestGenerateIncludesSelectedClasses(t *testing.T) {
	for i := 0; i < 20; i++ {
		pw, err := Generate(16, GenerateOptions{})
		require.NoError(t, err)
		require.Len(t, pw, 16)
		assert.True(t, strings.ContainsAny(pw, classLower), "missing lowercase in %q", pw)
		assert.True(t, strings.ContainsAny(pw, classUpper), "missing uppercase in %q", pw)
		assert.True(t, strings.ContainsAny(pw, classDigits), "missing digit in %q", pw)
		assert.True(t, strings.ContainsAny(pw, classSymbol), "missing symbol in %q", pw)
	}
}

func TestGenerateRespectsExclusions(t *testing.T) {
	pw, err := Generate(32, GenerateOptions{NoSymbols: true, NoDigits: true})
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(pw, classDigits))
	assert.False(t, strings.ContainsAny(pw, classSymbol))
}

func TestGenerateDegenerateInputs(t *testing.T) {
	pw, err := Generate(0, GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, pw)

	pw, err = Generate(8, GenerateOptions{NoLower: true, NoUpper: true, NoDigits: true, NoSymbols: true})
	require.NoError(t, err)
	assert.Empty(t, pw)
}
