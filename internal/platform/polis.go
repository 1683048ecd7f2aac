// Package platform owns the store and the registered species, and runs
// persisted simulations against them.
package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"geneticload/internal/model"
	"geneticload/internal/population"
	"geneticload/internal/species"
	"geneticload/internal/storage"

	"github.com/google/uuid"
)

type Config struct {
	Store  storage.Store
	Logger *slog.Logger
	// Now stamps run records; defaults to time.Now.
	Now    func() time.Time
}

type RunConfig struct {
	RunID                   string
	SpeciesName             string
	PopulationSize          int
	Generations             int
	Seed                    uint64
	MaxAttemptsPerOffspring int
}

type RunResult struct {
	Run       model.RunRecord
	Summaries []model.GenerationSummary
	Final     []population.Individual
}

type Polis struct {
	store storage.Store
	log   *slog.Logger
	now   func() time.Time

	mu      sync.RWMutex
	species map[string]*species.Species
	started bool
}

func NewPolis(cfg Config) *Polis {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Polis{
		store:   cfg.Store,
		log:     logger,
		now:     now,
		species: make(map[string]*species.Species),
	}
}

func (p *Polis) Init(ctx context.Context) error {
	if p.store == nil {
		return fmt.Errorf("store is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := p.store.Init(ctx); err != nil {
		return err
	}
	p.started = true
	return nil
}

func (p *Polis) RegisterSpecies(sp *species.Species) error {
	if sp == nil {
		return fmt.Errorf("species is required")
	}
	if sp.Name() == "" {
		return fmt.Errorf("species name is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.species[sp.Name()]; exists {
		return fmt.Errorf("species already registered: %s", sp.Name())
	}
	p.species[sp.Name()] = sp
	return nil
}

func (p *Polis) GetSpecies(name string) (*species.Species, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sp, ok := p.species[name]
	return sp, ok
}

func (p *Polis) RegisteredSpecies() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.species))
	for name := range p.species {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run simulates a registered species. The run record is saved before the
// first generation and the summaries are rewritten after every generation,
// so a failed run still leaves its completed history behind.
func (p *Polis) Run(ctx context.Context, cfg RunConfig) (RunResult, error) {
	p.mu.RLock()
	sp, ok := p.species[cfg.SpeciesName]
	started := p.started
	p.mu.RUnlock()

	if !started {
		return RunResult{}, fmt.Errorf("polis is not initialized")
	}
	if !ok {
		return RunResult{}, fmt.Errorf("species not registered: %s", cfg.SpeciesName)
	}

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	record := model.RunRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              runID,
		SpeciesName:     sp.Name(),
		Ploidy:          sp.Ploidy(),
		LocusCount:      len(sp.Positions()),
		Seed:            cfg.Seed,
		PopulationSize:  cfg.PopulationSize,
		Generations:     cfg.Generations,
		CreatedAt:       p.now().UTC(),
	}

	var summaries []model.GenerationSummary
	sim, err := population.New(population.Config{
		Species:                 sp,
		Size:                    cfg.PopulationSize,
		Generations:             cfg.Generations,
		Seed:                    cfg.Seed,
		MaxAttemptsPerOffspring: cfg.MaxAttemptsPerOffspring,
		Logger:                  p.log.With("run_id", runID),
		OnGeneration: func(s model.GenerationSummary) error {
			summaries = append(summaries, s)
			return p.store.SaveGenerationSummaries(ctx, runID, summaries)
		},
	})
	if err != nil {
		return RunResult{}, err
	}
	if err := p.store.SaveRun(ctx, record); err != nil {
		return RunResult{}, fmt.Errorf("save run %s: %w", runID, err)
	}

	result, err := sim.Run(ctx)
	if err != nil {
		return RunResult{Run: record, Summaries: summaries}, fmt.Errorf("run %s: %w", runID, err)
	}
	return RunResult{Run: record, Summaries: result.Summaries, Final: result.Final}, nil
}
