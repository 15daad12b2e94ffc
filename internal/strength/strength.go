// Package strength scores password strength with an OWASP-style heuristic:
// length and character variety earn points, common sequences and repetition
// lose them. Scores run 0 (very weak) to 4 (excellent).
package strength

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

var commonPatterns = []string{
	"123456", "password", "senha", "111111", "qwerty", "abc123",
	"123456789", "letmein", "monkey", "123123", "admin", "iloveyou",
	"welcome", "senha123", "12345678", "senha1234",
}

var repeatRe = regexp.MustCompile(`(.)\1{2,}`)

// Analysis is the full report for one password.
type Analysis struct {
	Score       int
	Label       string
	EntropyBits int
	CrackTime   string
	PassesOWASP bool
	Warnings    []string
	Suggestions []string
}

var labels = [5]string{"Very weak", "Weak", "Fair", "Good", "Excellent"}

// Analyze scores a password. Returns nil for an empty password.
func Analyze(password string) *Analysis {
	if password == "" {
		return nil
	}

	length := len([]rune(password))
	points := 0.0
	if length >= 8 {
		points++
	}
	if length >= 12 {
		points++
	}
	if length >= 16 {
		points++
	}
	if length >= 20 {
		points++
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if hasLower {
		points += 0.5
	}
	if hasUpper {
		points += 0.5
	}
	if hasDigit {
		points += 0.5
	}
	if hasSymbol {
		points++
	}

	var warnings, suggestions []string

	lowered := strings.ToLower(password)
	for _, p := range commonPatterns {
		if strings.Contains(lowered, p) {
			points = math.Max(0, points-3)
			warnings = append(warnings, "contains a very common, easily guessed sequence")
			break
		}
	}
	if repeatRe.MatchString(password) {
		points = math.Max(0, points-1)
		warnings = append(warnings, "avoid repeating the same character several times")
	}

	if !hasUpper {
		suggestions = append(suggestions, "add uppercase letters (A-Z)")
	}
	if !hasLower {
		suggestions = append(suggestions, "add lowercase letters (a-z)")
	}
	if !hasDigit {
		suggestions = append(suggestions, "add digits (0-9)")
	}
	if !hasSymbol {
		suggestions = append(suggestions, "add symbols like !@#$%")
	}
	if length < 12 {
		suggestions = append(suggestions, fmt.Sprintf("use at least 12 characters, this one has %d", length))
	}

	charset := 0
	if hasLower {
		charset += 26
	}
	if hasUpper {
		charset += 26
	}
	if hasDigit {
		charset += 10
	}
	if hasSymbol {
		charset += 32
	}
	if charset < 26 {
		charset = 26
	}
	entropy := float64(length) * math.Log2(float64(charset))

	score := int(math.Min(4, math.Floor(points)))
	return &Analysis{
		Score:       score,
		Label:       labels[score],
		EntropyBits: int(math.Round(entropy)),
		CrackTime:   formatCrackTime(math.Pow(float64(charset), float64(length)) / 1e10),
		PassesOWASP: length >= 8 && hasLower && hasUpper && hasDigit && hasSymbol,
		Warnings:    warnings,
		Suggestions: suggestions,
	}
}

// formatCrackTime renders an offline attack estimate at 10^10 guesses/sec.
func formatCrackTime(seconds float64) string {
	switch {
	case seconds < 1:
		return "instant"
	case seconds < 60:
		return plural(seconds, "second")
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case seconds < 86400:
		return plural(seconds/3600, "hour")
	case seconds < 2592000:
		return plural(seconds/86400, "day")
	case seconds < 31536000:
		return plural(seconds/2592000, "month")
	case seconds < 3153600000:
		return plural(seconds/31536000, "year")
	default:
		return "more than 100 years"
	}
}

func plural(v float64, unit string) string {
	n := int(math.Round(v))
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
