package ports

import (
	"context"

	"protetor/internal/domain"
)

// BreachChecker looks up known breaches for an email address.
type BreachChecker interface {
	Check(ctx context.Context, email, clientIP string) (domain.BreachReport, error)
}

// URLScanner checks a URL against the threat-match upstream.
type URLScanner interface {
	Scan(ctx context.Context, rawurl, clientIP string) (domain.ScanResult, error)
}

// RangeProxy forwards a 5-char SHA-1 prefix to the pwned-password range API
// and returns the raw SUFFIX:COUNT lines.
type RangeProxy interface {
	Lookup(ctx context.Context, prefix, clientIP string) (string, error)
}
