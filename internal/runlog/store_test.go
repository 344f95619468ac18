package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	entries := []Entry{
		{Source: "DART", StartedAt: time.Now().Add(-2 * time.Minute), Duration: 3 * time.Second, Items: 40, Received: 40, Saved: 38, Status: StatusOK},
		{Source: "SEC_EDGAR", StartedAt: time.Now().Add(-time.Minute), Duration: time.Second, Status: StatusSkipped, Error: "source not configured"},
		{Source: "DART", StartedAt: time.Now(), Duration: 500 * time.Millisecond, Items: 2, Status: StatusFailed, Error: "sink returned HTTP 502"},
	}
	for _, e := range entries {
		if err := store.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(got) = %d, want 3", len(got))
	}
	// Newest first.
	if got[0].Status != StatusFailed || got[2].Source != "DART" {
		t.Errorf("order wrong: %+v", got)
	}
	if got[2].Items != 40 || got[2].Saved != 38 {
		t.Errorf("first entry = %+v", got[2])
	}
	if got[0].Error != "sink returned HTTP 502" {
		t.Errorf("Error = %q", got[0].Error)
	}
	if got[2].Duration != 3*time.Second {
		t.Errorf("Duration = %v, want 3s", got[2].Duration)
	}
}

func TestRecentLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, Entry{Source: "YONHAP", StartedAt: time.Now(), Status: StatusOK}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(got) = %d, want 2", len(got))
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	store.Close()
}
