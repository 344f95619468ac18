// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect implements the source adapters that poll external market
// data providers and normalize their records into the canonical collected
// item. Each adapter fetches raw provider data, maps it 1:1 into
// types.CollectedItem, applies signal classification inline, and isolates
// per-sub-fetch failures: a dead feed, a bad page, or a malformed payload is
// logged and skipped, never fatal to the batch. Only a missing credential
// aborts an adapter, and then as a skip signal rather than a failure.
package collect

import (
	"context"
	"errors"
	"time"

	"github.com/pdiddy/marketfeed/pkg/types"
)

// ErrNotConfigured reports a source whose required credential is absent.
// The job runner treats it as a skip so one unconfigured source never
// blocks the others.
var ErrNotConfigured = errors.New("source not configured")

// Source is a single external provider. Collect fetches and normalizes one
// run's worth of records; the returned batch is owned by the caller.
// Implementations return ErrNotConfigured (wrapped) when a required
// credential is missing and otherwise contain per-sub-fetch failures
// internally, returning a possibly partial batch.
type Source interface {
	Name() string
	Collect(ctx context.Context) ([]types.CollectedItem, error)
}

// timestampOrNow parses a provider date with the given layout, falling back
// to the current time when the value is missing or malformed. Provider
// timestamps are best-effort; the fallback must never raise.
func timestampOrNow(value, layout string) time.Time {
	if len(value) < len(layout) {
		return time.Now()
	}
	t, err := time.Parse(layout, value[:len(layout)])
	if err != nil {
		return time.Now()
	}
	return t
}
