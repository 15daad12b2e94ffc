// Package hibp is the client for the breach-lookup and pwned-password range
// upstreams. It maps upstream statuses to the domain error taxonomy: 404 is
// an empty result, 401 means a bad key, 429 passes through, anything else
// non-2xx is an upstream error.
package hibp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"protetor/internal/domain"
	"protetor/internal/metrics"
	"protetor/internal/ports"
)

const userAgent = "ProtetorDigital/2.0"

type Client struct {
	httpc     *http.Client
	breachURL string
	rangeURL  string
	apiKey    string
}

// New builds a client. breachURL and rangeURL are base URLs without trailing
// slash; apiKey may be empty when only range lookups are used (the range API
// is unauthenticated).
func New(breachURL, rangeURL, apiKey string) *Client {
	return &Client{
		httpc:     &http.Client{Timeout: 15 * time.Second},
		breachURL: strings.TrimRight(breachURL, "/"),
		rangeURL:  strings.TrimRight(rangeURL, "/"),
		apiKey:    apiKey,
	}
}

// BreachedAccount fetches all breaches for an email. The email is sent
// path-escaped with truncateResponse=false so data classes come back.
func (c *Client) BreachedAccount(ctx context.Context, email string) ([]ports.UpstreamBreach, error) {
	u := fmt.Sprintf("%s/breachedaccount/%s?truncateResponse=false", c.breachURL, url.PathEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("hibp-api-key", c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	res, err := c.httpc.Do(req)
	metrics.UpstreamDuration.WithLabelValues("hibp_breach").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: breach lookup: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		// No breaches for this account.
		return []ports.UpstreamBreach{}, nil
	case res.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: breach API rejected key", domain.ErrMisconfigured)
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, domain.ErrUpstreamRateLimited
	case res.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: breach API status %d", domain.ErrUpstream, res.StatusCode)
	}

	var breaches []ports.UpstreamBreach
	if err := json.NewDecoder(res.Body).Decode(&breaches); err != nil {
		return nil, fmt.Errorf("%w: breach API body: %v", domain.ErrUpstream, err)
	}
	return breaches, nil
}

// Range fetches the SUFFIX:COUNT lines for a 5-char uppercase hex prefix.
// Add-Padding asks the upstream to mix in decoy entries against traffic
// analysis.
func (c *Client) Range(ctx context.Context, prefix string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rangeURL+"/"+strings.ToUpper(prefix), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Add-Padding", "true")

	start := time.Now()
	res, err := c.httpc.Do(req)
	metrics.UpstreamDuration.WithLabelValues("hibp_range").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("%w: range lookup: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return "", domain.ErrUpstreamRateLimited
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: range API status %d", domain.ErrUpstream, res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: range API body: %v", domain.ErrUpstream, err)
	}
	return string(body), nil
}
