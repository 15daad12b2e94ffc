// Package sweeper periodically purges expired cache entries and rate
// counters from the backing store.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"protetor/internal/metrics"
	"protetor/internal/ports"
)

// Run blocks until ctx is done, purging expired entries from each store on
// every tick. Purge failures are logged and retried next tick.
func Run(ctx context.Context, interval time.Duration, stores ...ports.ExpiryPurger) {
	if interval <= 0 || len(stores) == 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			total := 0
			for _, store := range stores {
				removed, err := store.PurgeExpired(ctx)
				if err != nil {
					log.Warn().Err(err).Msg("expiry sweep failed")
					continue
				}
				total += removed
			}
			if total > 0 {
				metrics.SweeperPurged.Add(float64(total))
				log.Debug().Int("removed", total).Msg("purged expired entries")
			}
		}
	}
}
