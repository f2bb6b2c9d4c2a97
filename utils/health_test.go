package utils

import (
	"context"
	"errors"
	"testing"
)

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckHealthRecordsStatus(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("down") })

	status := CheckHealth(context.Background(), ok, down)
	if !status.Store || status.Backend {
		t.Fatalf("unexpected status %+v", status)
	}
	if got := GetHealthStatus(); got != status {
		t.Fatalf("snapshot not stored: %+v", got)
	}
}

func TestHealthMonitorAcceptsZeroInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ok := pingerFunc(func(context.Context) error { return nil })

	StartHealthMonitor(ctx, 0, ok, ok)
	if got := GetHealthStatus(); !got.Store || !got.Backend {
		t.Fatalf("initial check not recorded: %+v", got)
	}
}
