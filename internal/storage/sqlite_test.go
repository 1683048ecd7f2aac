//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"geneticload/internal/model"
)

func TestSQLiteStoreRunsAndSummariesRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "geneticload.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	base := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	for i, id := range []string{"run-2", "run-1"} {
		if err := store.SaveRun(ctx, newRun(id, base.Add(-time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("save run %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-1" {
		t.Fatalf("expected oldest run first, got %+v", runs)
	}

	loaded, ok, err := store.GetRun(ctx, "run-2")
	if err != nil || !ok {
		t.Fatalf("get run: ok=%t err=%v", ok, err)
	}
	if !loaded.CreatedAt.Equal(base) {
		t.Fatalf("unexpected created_at %v", loaded.CreatedAt)
	}

	summaries := []model.GenerationSummary{{Generation: 1, MeanFitness: 0.95, MeanHeterozygousLoci: 1.5}}
	if err := store.SaveGenerationSummaries(ctx, "run-2", summaries); err != nil {
		t.Fatalf("save summaries: %v", err)
	}
	got, ok, err := store.GetGenerationSummaries(ctx, "run-2")
	if err != nil || !ok {
		t.Fatalf("get summaries: ok=%t err=%v", ok, err)
	}
	if len(got) != 1 || got[0].MeanHeterozygousLoci != 1.5 {
		t.Fatalf("unexpected summaries: %+v", got)
	}

	if _, ok, err := store.GetGenerationSummaries(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing summaries, ok=%t err=%v", ok, err)
	}
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected missing path error")
	}
}
