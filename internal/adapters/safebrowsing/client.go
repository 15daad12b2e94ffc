// Package safebrowsing is the client for the URL threat-match upstream.
package safebrowsing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"protetor/internal/domain"
	"protetor/internal/metrics"
)

// Threat types queried for every lookup, across any platform.
var threatTypes = []string{
	"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE", "POTENTIALLY_HARMFUL_APPLICATION",
}

type Client struct {
	httpc     *http.Client
	lookupURL string
	apiKey    string
}

func New(lookupURL, apiKey string) *Client {
	return &Client{
		httpc:     &http.Client{Timeout: 15 * time.Second},
		lookupURL: lookupURL,
		apiKey:    apiKey,
	}
}

type lookupRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string `json:"threatTypes"`
		PlatformTypes    []string `json:"platformTypes"`
		ThreatEntryTypes []string `json:"threatEntryTypes"`
		ThreatEntries    []struct {
			URL string `json:"url"`
		} `json:"threatEntries"`
	} `json:"threatInfo"`
}

type lookupResponse struct {
	Matches []struct {
		ThreatType string `json:"threatType"`
	} `json:"matches"`
}

// FindThreats runs one threatMatches:find lookup and returns the matched
// threat types. An empty slice means the URL is clean.
func (c *Client) FindThreats(ctx context.Context, rawurl string) ([]string, error) {
	var payload lookupRequest
	payload.Client.ClientID = "protetordigital"
	payload.Client.ClientVersion = "2.0.0"
	payload.ThreatInfo.ThreatTypes = threatTypes
	payload.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	payload.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	payload.ThreatInfo.ThreatEntries = []struct {
		URL string `json:"url"`
	}{{URL: rawurl}}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.lookupURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.httpc.Do(req)
	metrics.UpstreamDuration.WithLabelValues("safebrowsing").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: threat lookup: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusTooManyRequests {
		return nil, domain.ErrUpstreamRateLimited
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: threat API status %d", domain.ErrUpstream, res.StatusCode)
	}

	var out lookupResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: threat API body: %v", domain.ErrUpstream, err)
	}
	threats := make([]string, 0, len(out.Matches))
	for _, m := range out.Matches {
		threats = append(threats, m.ThreatType)
	}
	return threats, nil
}
