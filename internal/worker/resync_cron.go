package worker

// resync_cron.go
// Background goroutine that periodically rebuilds the denormalized stock
// cache from the movement ledger. Catches drift from any resync that failed
// after its triggering operation committed.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Resyncer rebuilds the stock cache for every product.
type Resyncer interface {
	ResyncAll(ctx context.Context) error
}

// StartResyncCron launches a goroutine that calls ResyncAll on a fixed
// interval. It respects the context for graceful shutdown.
func StartResyncCron(ctx context.Context, r Resyncer, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Info().Dur("interval", interval).Msg("resync_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("resync_cron: shutting down")
				return
			case <-ticker.C:
				if err := r.ResyncAll(ctx); err != nil {
					log.Error().Err(err).Msg("resync_cron: full resync failed")
				}
			}
		}
	}()
}
