// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schedule runs registered jobs on fixed intervals. Each job gets
// its own goroutine, so one slow job never delays another, and ticks of
// the same job never overlap.
package schedule

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Job is one periodic task.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler drives a fixed set of jobs. A faulting tick is logged and the
// cadence continues; a panic in a job is recovered the same way.
type Scheduler struct {
	jobs []Job
	log  io.Writer

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// defaultInterval replaces a non-positive job interval; the ticker requires
// a positive duration.
const defaultInterval = time.Minute

// New builds a scheduler over the given jobs. Jobs without a positive
// interval fall back to defaultInterval.
func New(log io.Writer, jobs ...Job) *Scheduler {
	for i := range jobs {
		if jobs[i].Interval <= 0 {
			jobs[i].Interval = defaultInterval
		}
	}
	return &Scheduler{jobs: jobs, log: log}
}

// Start launches every job. Each job runs once immediately, then on its
// interval. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	for _, job := range s.jobs {
		go s.loop(ctx, job)
	}
	fmt.Fprintf(s.log, "scheduler started with %d jobs\n", len(s.jobs))
}

// Stop cancels all future ticks. A tick already in flight observes the
// cancelled context and winds down on its own; Stop does not wait for it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	s.running = false
	fmt.Fprintln(s.log, "scheduler stopped")
}

// Running reports whether the scheduler has been started and not stopped.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	s.tick(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx, job)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, job Job) {
	defer func() {
		if rec := recover(); rec != nil {
			fmt.Fprintf(s.log, "job %s panicked: %v\n", job.Name, rec)
		}
	}()

	if ctx.Err() != nil {
		return
	}
	if err := job.Run(ctx); err != nil {
		fmt.Fprintf(s.log, "job %s failed: %v\n", job.Name, err)
	}
}
