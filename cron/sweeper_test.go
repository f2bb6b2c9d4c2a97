package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingSweeper struct{ calls atomic.Int32 }

func (s *countingSweeper) Sweep(time.Duration) int { s.calls.Add(1); return 1 }
func (s *countingSweeper) Len() int                { return 0 }

func TestSweeperRunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &countingSweeper{}
	StartJourneySweeper(ctx, s, 5*time.Millisecond, time.Minute, zap.NewNop())

	deadline := time.Now().Add(time.Second)
	for s.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if s.calls.Load() < 2 {
		t.Fatalf("sweeper ran %d times", s.calls.Load())
	}
}

func TestSweeperFallsBackOnZeroInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &countingSweeper{}
	StartJourneySweeper(ctx, s, 0, time.Minute, zap.NewNop())
	time.Sleep(20 * time.Millisecond)
	if s.calls.Load() != 0 {
		t.Fatalf("sweeper should wait for the default interval, ran %d times", s.calls.Load())
	}
}
