package schedule

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestSchedulerRunsImmediatelyThenOnInterval(t *testing.T) {
	var ticks atomic.Int64
	s := New(bytes.NewBuffer(nil), Job{
		Name:     "fast",
		Interval: 20 * time.Millisecond,
		Run: func(context.Context) error {
			ticks.Add(1)
			return nil
		},
	})

	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool { return ticks.Load() >= 3 }, "job never reached 3 ticks")
}

func TestSchedulerFailingTickDoesNotStopCadence(t *testing.T) {
	var ticks atomic.Int64
	var log bytes.Buffer
	var mu sync.Mutex

	s := New(syncWriter{&mu, &log}, Job{
		Name:     "flaky",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			if ticks.Add(1) == 1 {
				return errors.New("transient failure")
			}
			return nil
		},
	})

	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool { return ticks.Load() >= 2 }, "second tick never ran after a failure")

	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(log.String(), "job flaky failed") {
		t.Errorf("log = %q, want failure line", log.String())
	}
}

func TestSchedulerRecoversPanickingJob(t *testing.T) {
	var ticks atomic.Int64
	var log bytes.Buffer
	var mu sync.Mutex

	s := New(syncWriter{&mu, &log}, Job{
		Name:     "wild",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			if ticks.Add(1) == 1 {
				panic("unexpected state")
			}
			return nil
		},
	})

	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool { return ticks.Load() >= 2 }, "job never ticked again after a panic")

	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(log.String(), "job wild panicked") {
		t.Errorf("log = %q, want panic line", log.String())
	}
}

func TestSchedulerStopCancelsFutureTicks(t *testing.T) {
	var ticks atomic.Int64
	s := New(bytes.NewBuffer(nil), Job{
		Name:     "stoppable",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			ticks.Add(1)
			return nil
		},
	})

	s.Start(context.Background())
	waitFor(t, func() bool { return ticks.Load() >= 1 }, "job never ran")
	s.Stop()

	if s.Running() {
		t.Error("Running() = true after Stop")
	}

	settled := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	// One in-flight tick may land after Stop; the cadence must not continue.
	if extra := ticks.Load() - settled; extra > 1 {
		t.Errorf("%d ticks after Stop, want at most 1 in-flight", extra)
	}
}

func TestSchedulerStartTwiceIsNoop(t *testing.T) {
	var ticks atomic.Int64
	s := New(bytes.NewBuffer(nil), Job{
		Name:     "once",
		Interval: time.Hour,
		Run: func(context.Context) error {
			ticks.Add(1)
			return nil
		},
	})

	s.Start(context.Background())
	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool { return ticks.Load() >= 1 }, "job never ran")
	time.Sleep(20 * time.Millisecond)
	if got := ticks.Load(); got != 1 {
		t.Errorf("ticks = %d, want 1 immediate run", got)
	}
}

func TestSchedulerDefaultsNonPositiveInterval(t *testing.T) {
	var ticks atomic.Int64
	s := New(bytes.NewBuffer(nil), Job{
		Name: "unconfigured",
		Run: func(context.Context) error {
			ticks.Add(1)
			return nil
		},
	})

	s.Start(context.Background())
	defer s.Stop()

	waitFor(t, func() bool { return ticks.Load() >= 1 }, "zero-interval job never ran")
}

// syncWriter guards a buffer shared between job goroutines and the test.
type syncWriter struct {
	mu  *sync.Mutex
	buf *bytes.Buffer
}

func (w syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}
