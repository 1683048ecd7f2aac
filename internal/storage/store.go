package storage

import (
	"context"

	"geneticload/internal/model"
)

// Store persists run definitions and their per-generation summaries.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveGenerationSummaries(ctx context.Context, runID string, summaries []model.GenerationSummary) error
	GetGenerationSummaries(ctx context.Context, runID string) ([]model.GenerationSummary, bool, error)
}
