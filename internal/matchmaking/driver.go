package matchmaking

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Driver pumps the client's callback queue on a fixed period. Asynchronous
// requests never complete unless a Driver is running.
type Driver struct {
	client   CallbackRunner
	interval time.Duration
	logger   zerolog.Logger
}

func NewDriver(client CallbackRunner, interval time.Duration, logger zerolog.Logger) *Driver {
	return &Driver{
		client:   client,
		interval: interval,
		logger:   logger.With().Str("component", "callback_driver").Logger(),
	}
}

// Run blocks until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Debug().Dur("interval", d.interval).Msg("callback driver started")
	for {
		d.client.RunCallbacks()

		select {
		case <-ctx.Done():
			d.logger.Debug().Msg("callback driver stopped")
			return
		case <-ticker.C:
		}
	}
}
