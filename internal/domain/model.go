package domain

import (
	"regexp"
	"strings"
	"time"
)

// Core domain models. Upstream API shapes live in the adapters; these are the
// normalized forms served to clients and stored in the cache.

// Severity classifies how damaging one breach is based on what it exposed.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// BreachRecord is one exposure event for an email address, normalized from
// the upstream breach API. Immutable once built.
type BreachRecord struct {
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	Domain       string   `json:"domain"`
	Date         string   `json:"date"`
	AddedDate    string   `json:"addedDate"`
	ExposedData  []string `json:"exposedData"`
	PwnCount     int64    `json:"pwnCount"`
	Description  string   `json:"description"`
	Severity     Severity `json:"severity"`
	IsVerified   bool     `json:"isVerified"`
	IsFabricated bool     `json:"isFabricated"`
	IsSensitive  bool     `json:"isSensitive"`
}

// BreachReport is the full response for one breach check. It is the unit
// cached per email; Cached is set per response, after a cache hit.
type BreachReport struct {
	Breaches      []BreachRecord `json:"breaches"`
	TotalBreaches int            `json:"totalBreaches"`
	CheckedAt     time.Time      `json:"checkedAt"`
	Source        string         `json:"source"`
	Cached        bool           `json:"cached,omitempty"`
}

// ScanResult is the outcome of one URL safety check. Safe is true iff the
// upstream reported zero threat matches.
type ScanResult struct {
	Safe      bool      `json:"safe"`
	Threats   []string  `json:"threats"`
	Domain    string    `json:"domain,omitempty"`
	Method    string    `json:"method"`
	Latency   string    `json:"latency"`
	CheckedAt time.Time `json:"checkedAt"`
	Cached    bool      `json:"cached,omitempty"`
}

// Severity taxonomy. Matching is case-insensitive substring; the high tier
// wins ties.
var (
	highSeverityTerms = []string{
		"passwords", "credit cards", "bank account", "social security", "cpf", "financial",
	}
	mediumSeverityTerms = []string{
		"email addresses", "phone numbers", "physical addresses", "usernames", "dates of birth",
	}
)

// ClassifySeverity derives a Severity from the exposed data classes of one
// breach.
func ClassifySeverity(dataClasses []string) Severity {
	lowered := make([]string, 0, len(dataClasses))
	for _, dc := range dataClasses {
		lowered = append(lowered, strings.ToLower(dc))
	}
	if containsAnyTerm(lowered, highSeverityTerms) {
		return SeverityHigh
	}
	if containsAnyTerm(lowered, mediumSeverityTerms) {
		return SeverityMedium
	}
	return SeverityLow
}

func containsAnyTerm(classes, terms []string) bool {
	for _, t := range terms {
		for _, c := range classes {
			if strings.Contains(c, t) {
				return true
			}
		}
	}
	return false
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// StripHTML removes markup from upstream free-text fields before they are
// served or cached.
func StripHTML(s string) string {
	return htmlTagRe.ReplaceAllString(s, "")
}
