package urlscan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protetor/internal/adapters/memstore"
	"protetor/internal/domain"
)

type stubThreatAPI struct {
	mu      sync.Mutex
	calls   int
	threats []string
	err     error
}

func (s *stubThreatAPI) FindThreats(_ context.Context, _ string) ([]string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.threats, s.err
}

func (s *stubThreatAPI) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newService(api *stubThreatAPI) *Service {
	return New(api, memstore.NewCache(), memstore.NewRateLimiter(), Config{
		RateLimit:  30,
		RateWindow: time.Minute,
		CacheTTL:   time.Hour,
	})
}

func TestScanRejectsBadURLs(t *testing.T) {
	api := &stubThreatAPI{}
	svc := newService(api)

	for _, raw := range []string{"", "not a url", "ftp://example.com/file", "example.com", "//missing-scheme.com"} {
		_, err := svc.Scan(context.Background(), raw, "1.2.3.4")
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "url %q", raw)
	}
	assert.Zero(t, api.callCount())
}

func TestScanCleanURL(t *testing.T) {
	svc := newService(&stubThreatAPI{threats: []string{}})

	res, err := svc.Scan(context.Background(), "https://example.com/page", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, res.Safe)
	assert.Empty(t, res.Threats)
	assert.Equal(t, "example.com", res.Domain)
	assert.Equal(t, "direct_lookup", res.Method)
	assert.NotEmpty(t, res.Latency)
	assert.False(t, res.CheckedAt.IsZero())
}

func TestScanMaliciousURL(t *testing.T) {
	svc := newService(&stubThreatAPI{threats: []string{"MALWARE"}})

	res, err := svc.Scan(context.Background(), "http://bad.example.net/x", "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Safe)
	assert.Equal(t, []string{"MALWARE"}, res.Threats)
}

func TestScanCachesByExactURL(t *testing.T) {
	api := &stubThreatAPI{threats: []string{}}
	svc := newService(api)
	ctx := context.Background()

	first, err := svc.Scan(ctx, "https://example.com/a", "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Scan(ctx, "https://example.com/a", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, api.callCount())

	// A different path is a different fingerprint.
	_, err = svc.Scan(ctx, "https://example.com/b", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, 2, api.callCount())
}

func TestScanRateLimit(t *testing.T) {
	api := &stubThreatAPI{threats: []string{}}
	svc := New(api, memstore.NewCache(), memstore.NewRateLimiter(), Config{
		RateLimit:  1,
		RateWindow: time.Minute,
		CacheTTL:   time.Hour,
	})
	ctx := context.Background()

	_, err := svc.Scan(ctx, "https://example.com/1", "9.9.9.9")
	require.NoError(t, err)
	_, err = svc.Scan(ctx, "https://example.com/2", "9.9.9.9")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 1, api.callCount())
}

func TestScanUnconfigured(t *testing.T) {
	svc := New(nil, memstore.NewCache(), memstore.NewRateLimiter(), Config{
		RateLimit: 30, RateWindow: time.Minute, CacheTTL: time.Hour,
	})
	_, err := svc.Scan(context.Background(), "https://example.com", "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
