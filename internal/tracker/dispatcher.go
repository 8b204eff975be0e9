package tracker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher flushes the outbox of a sheet on a fixed interval.
type Dispatcher struct {
	sheet    *Sheet
	interval time.Duration
	logger   zerolog.Logger
}

// NewDispatcher creates a dispatcher for sheet.
func NewDispatcher(sheet *Sheet, interval time.Duration, logger zerolog.Logger) *Dispatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Dispatcher{sheet: sheet, interval: interval, logger: logger}
}

// Run flushes once at start and then on every tick until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		result, err := d.sheet.Flush(ctx)
		if err != nil {
			return err
		}
		if result != (FlushResult{}) {
			d.logger.Info().
				Int("delivered", result.Delivered).
				Int("rejected", result.Rejected).
				Int("retrying", result.Retrying).
				Msg("outbox flushed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Drain flushes on every tick until no intent is pending or ctx is done.
func (d *Dispatcher) Drain(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		if _, err := d.sheet.Flush(ctx); err != nil {
			return err
		}
		if d.sheet.Outbox().Pending() == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
