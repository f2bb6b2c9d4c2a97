// Package cron runs the background housekeeping of the service.
package cron

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper forgets idle in-memory journeys.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
	Len() int
}

// DefaultSweepInterval is used when the configured interval is not positive.
const DefaultSweepInterval = 5 * time.Minute

// StartJourneySweeper sweeps every interval until ctx is done.
func StartJourneySweeper(ctx context.Context, s Sweeper, interval, maxIdle time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		logger.Warn("invalid sweep interval, using default", zap.Duration("interval", interval), zap.Duration("default", DefaultSweepInterval))
		interval = DefaultSweepInterval
	}
	go func() {
		logger.Info("journey sweeper started", zap.Duration("interval", interval), zap.Duration("maxIdle", maxIdle))
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info("journey sweeper stopped")
				return
			case <-ticker.C:
				if n := s.Sweep(maxIdle); n > 0 {
					logger.Debug("swept idle journeys", zap.Int("removed", n), zap.Int("live", s.Len()))
				}
			}
		}
	}()
}
