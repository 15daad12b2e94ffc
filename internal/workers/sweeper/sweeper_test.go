package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"protetor/internal/adapters/memstore"
)

func TestRunPurgesExpiredEntries(t *testing.T) {
	cache := memstore.NewCache()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, cache.Set(ctx, "stale", []byte("x"), time.Millisecond))
	require.NoError(t, cache.Set(ctx, "fresh", []byte("y"), time.Hour))
	time.Sleep(5 * time.Millisecond)

	go Run(ctx, 10*time.Millisecond, cache)
	time.Sleep(50 * time.Millisecond)
	cancel()

	_, ok, err := cache.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)

	removed, err := cache.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed, "sweeper should already have purged the stale entry")
}

func TestRunNoopWithoutStores(t *testing.T) {
	done := make(chan struct{})
	go func() {
		Run(context.Background(), time.Second)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run must return immediately with no stores")
	}
}
