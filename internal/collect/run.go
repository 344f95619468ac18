// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/marketfeed/internal/deliver"
	"github.com/pdiddy/marketfeed/internal/metrics"
	"github.com/pdiddy/marketfeed/internal/runlog"
)

// Report summarizes one collection run.
type Report struct {
	Source   string
	Items    int
	Received int
	Saved    int
	Skipped  bool
}

// Runner drives a source through one collect-and-deliver cycle. Runs is
// optional; when nil no audit rows are written.
type Runner struct {
	Sink *deliver.Client
	Log  io.Writer
	Runs *runlog.Store
}

// RunOnce collects from src and delivers the batch downstream. A source or
// sink that is not configured produces a skipped report, not an error;
// everything else that fails is returned to the caller.
func (r *Runner) RunOnce(ctx context.Context, src Source) (Report, error) {
	started := time.Now()
	report := Report{Source: src.Name()}

	items, err := src.Collect(ctx)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			fmt.Fprintf(r.Log, "%s skipped: %v\n", src.Name(), err)
			report.Skipped = true
			r.finish(ctx, started, report, runlog.StatusSkipped, err)
			return report, nil
		}
		r.finish(ctx, started, report, runlog.StatusFailed, err)
		return report, fmt.Errorf("collecting %s: %w", src.Name(), err)
	}
	report.Items = len(items)
	metrics.RecordItems(src.Name(), len(items))

	ack, err := r.Sink.Send(ctx, items)
	if err != nil {
		if errors.Is(err, deliver.ErrNotConfigured) {
			fmt.Fprintf(r.Log, "%s collected %d items, delivery skipped: %v\n", src.Name(), len(items), err)
			report.Skipped = true
			r.finish(ctx, started, report, runlog.StatusSkipped, err)
			return report, nil
		}
		metrics.RecordDeliveryFailure()
		r.finish(ctx, started, report, runlog.StatusFailed, err)
		return report, fmt.Errorf("delivering %s batch: %w", src.Name(), err)
	}
	report.Received = ack.Received
	report.Saved = ack.Saved

	fmt.Fprintf(r.Log, "%s delivered: received=%d saved=%d\n", src.Name(), ack.Received, ack.Saved)
	r.finish(ctx, started, report, runlog.StatusOK, nil)
	return report, nil
}

// Job adapts a source for the scheduler.
func (r *Runner) Job(src Source) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := r.RunOnce(ctx, src)
		return err
	}
}

func (r *Runner) finish(ctx context.Context, started time.Time, report Report, status string, runErr error) {
	elapsed := time.Since(started)
	metrics.RecordRun(report.Source, status, elapsed.Seconds())

	if r.Runs == nil {
		return
	}
	entry := runlog.Entry{
		Source:    report.Source,
		StartedAt: started,
		Duration:  elapsed,
		Items:     report.Items,
		Received:  report.Received,
		Saved:     report.Saved,
		Status:    status,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := r.Runs.Record(ctx, entry); err != nil {
		fmt.Fprintf(r.Log, "warning: run log write failed: %v\n", err)
	}
}
