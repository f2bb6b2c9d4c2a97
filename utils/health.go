package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is a dependency that can be health checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Store     bool      `json:"store"`
	Backend   bool      `json:"backend"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// CheckHealth pings the state store and the backend once and records the result.
func CheckHealth(ctx context.Context, store, backend Pinger) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Store:     store.Ping(ctx) == nil,
		Backend:   backend.Ping(ctx) == nil,
		CheckedAt: time.Now(),
	}
	if !status.Store || !status.Backend {
		GetLogger().Warn("dependency unhealthy", zap.Bool("store", status.Store), zap.Bool("backend", status.Backend))
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// DefaultHealthInterval is used when the configured interval is not positive.
const DefaultHealthInterval = time.Minute

// StartHealthMonitor performs periodic health checks until ctx is done.
func StartHealthMonitor(ctx context.Context, interval time.Duration, store, backend Pinger) {
	if interval <= 0 {
		GetLogger().Warn("invalid health interval, using default", zap.Duration("interval", interval), zap.Duration("default", DefaultHealthInterval))
		interval = DefaultHealthInterval
	}
	CheckHealth(ctx, store, backend)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CheckHealth(ctx, store, backend)
			}
		}
	}()
}
