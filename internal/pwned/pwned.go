// Package pwned is the client side of the k-anonymity password check. The
// password is hashed locally with SHA-1 and only the first 5 hex characters
// of the digest ever leave the process; the suffix match happens here.
package pwned

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MinPasswordLength below which a check is skipped and reported unchecked.
const MinPasswordLength = 4

// SplitHash returns the uppercase hex SHA-1 of password split into the
// 5-char prefix that may be disclosed and the 35-char suffix that must not.
func SplitHash(password string) (prefix, suffix string) {
	sum := sha1.Sum([]byte(password))
	digest := strings.ToUpper(hex.EncodeToString(sum[:]))
	return digest[:5], digest[5:]
}

// Result of one check. Checked is false when the password was too short or
// skipped; a nonzero Count means the password appears in breach corpora.
type Result struct {
	Checked bool
	Count   int64
}

// Checker queries a range endpoint speaking the proxy's contract:
// POST {"prefix": "ABCDE"} returning newline-delimited SUFFIX:COUNT lines.
type Checker struct {
	Endpoint   string
	HTTPClient *http.Client
}

func NewChecker(endpoint string) *Checker {
	return &Checker{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Check reports how many times password appears in known breach corpora.
// Leading and trailing whitespace is significant: a password is exact data.
// A transport failure returns an error, never a zero count, so callers can
// present "could not verify" instead of a false "safe".
func (c *Checker) Check(ctx context.Context, password string) (Result, error) {
	if len(password) < MinPasswordLength {
		return Result{}, nil
	}
	prefix, suffix := SplitHash(password)

	body, err := json.Marshal(map[string]string{"prefix": prefix})
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("range lookup: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("range lookup: status %d", res.StatusCode)
	}
	lines, err := io.ReadAll(res.Body)
	if err != nil {
		return Result{}, fmt.Errorf("range lookup: %w", err)
	}
	return Result{Checked: true, Count: MatchSuffix(string(lines), suffix)}, nil
}

// MatchSuffix scans SUFFIX:COUNT lines for an exact suffix match and returns
// its count, or 0 when absent (including among the upstream's padding
// decoys, which all carry count 0 anyway).
func MatchSuffix(lines, suffix string) int64 {
	for _, line := range strings.Split(lines, "\n") {
		s, countStr, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		if strings.EqualFold(s, suffix) {
			count, err := strconv.ParseInt(strings.TrimSpace(countStr), 10, 64)
			if err != nil {
				return 0
			}
			return count
		}
	}
	return 0
}
