package pwnedrange

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protetor/internal/adapters/memstore"
	"protetor/internal/domain"
)

type stubRangeAPI struct {
	mu     sync.Mutex
	calls  int
	seen   []string
	result string
	err    error
}

func (s *stubRangeAPI) Range(_ context.Context, prefix string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.seen = append(s.seen, prefix)
	s.mu.Unlock()
	return s.result, s.err
}

func newService(api *stubRangeAPI, limit int) *Service {
	return New(api, memstore.NewRateLimiter(), Config{
		RateLimit:  limit,
		RateWindow: time.Minute,
	})
}

func TestLookupValidatesPrefix(t *testing.T) {
	api := &stubRangeAPI{}
	svc := newService(api, 60)

	for _, prefix := range []string{"", "ABCD", "ABCDEF", "GHIJK", "AB CD", "5baa6 "} {
		_, err := svc.Lookup(context.Background(), prefix, "1.2.3.4")
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "prefix %q", prefix)
	}
	assert.Zero(t, api.calls)
}

func TestLookupUppercasesAndForwards(t *testing.T) {
	api := &stubRangeAPI{result: "0018A45C4D1DEF81644B54AB7F969B88D65:1\nFFFFF:0\n"}
	svc := newService(api, 60)

	lines, err := svc.Lookup(context.Background(), "5baa6", "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, strings.Contains(lines, "0018A45C4D1DEF81644B54AB7F969B88D65:1"))
	require.Len(t, api.seen, 1)
	assert.Equal(t, "5BAA6", api.seen[0])
}

func TestLookupRateLimit(t *testing.T) {
	api := &stubRangeAPI{result: "X:1"}
	svc := newService(api, 2)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "AAAAA", "9.9.9.9")
	require.NoError(t, err)
	_, err = svc.Lookup(ctx, "BBBBB", "9.9.9.9")
	require.NoError(t, err)

	_, err = svc.Lookup(ctx, "CCCCC", "9.9.9.9")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 2, api.calls)
}

func TestLookupUpstreamError(t *testing.T) {
	svc := newService(&stubRangeAPI{err: domain.ErrUpstream}, 60)
	_, err := svc.Lookup(context.Background(), "AAAAA", "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
