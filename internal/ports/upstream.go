package ports

import "context"

// UpstreamBreach is the raw per-breach shape returned by the breach API
// before normalization.
type UpstreamBreach struct {
	Name         string   `json:"Name"`
	Title        string   `json:"Title"`
	Domain       string   `json:"Domain"`
	BreachDate   string   `json:"BreachDate"`
	AddedDate    string   `json:"AddedDate"`
	PwnCount     int64    `json:"PwnCount"`
	Description  string   `json:"Description"`
	DataClasses  []string `json:"DataClasses"`
	IsVerified   bool     `json:"IsVerified"`
	IsFabricated bool     `json:"IsFabricated"`
	IsSensitive  bool     `json:"IsSensitive"`
}

// BreachAPI is the breach-lookup-by-account upstream. A lookup with no
// breaches returns an empty slice, not an error.
type BreachAPI interface {
	BreachedAccount(ctx context.Context, email string) ([]UpstreamBreach, error)
}

// PasswordRangeAPI is the k-anonymity range upstream: newline-delimited
// SUFFIX:COUNT pairs for all hashes sharing the given 5-char prefix.
type PasswordRangeAPI interface {
	Range(ctx context.Context, prefix string) (string, error)
}

// ThreatMatchAPI checks one URL against the threat-match upstream and
// returns the matched threat types (empty means safe).
type ThreatMatchAPI interface {
	FindThreats(ctx context.Context, url string) ([]string, error)
}
