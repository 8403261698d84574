package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunTriggersJob(t *testing.T) {
	s := New()
	var calls atomic.Int32
	s.Register(Job{
		Name:     "touch",
		Interval: time.Hour,
		Fn: func(ctx context.Context) error {
			calls.Add(1)
			return nil
		},
	})

	if err := s.Run(context.Background(), "touch"); err != nil {
		t.Fatalf("run: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("job never ran")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunUnknownJob(t *testing.T) {
	s := New()
	if err := s.Run(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error")
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	s := New()
	ran := make(chan struct{}, 8)
	s.Register(Job{
		Name:     "tick",
		Interval: 20 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return errors.New("keep scheduling anyway")
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
	cancel()
}
