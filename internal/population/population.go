// Package population runs a Wright-Fisher style host simulation over
// genetic-load traits: mutation, viability selection and sexual or asexual
// reproduction with a constant population size.
package population

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"geneticload/internal/genetics"
	"geneticload/internal/model"
	"geneticload/internal/random"
	"geneticload/internal/species"
	"geneticload/internal/stats"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultMaxAttemptsPerOffspring = 1000

var (
	ErrInvalidConfig = errors.New("invalid population configuration")
	ErrExtinct       = errors.New("population went extinct")
)

type Config struct {
	Species                 *species.Species
	Size                    int
	Generations             int
	Seed                    uint64
	MaxAttemptsPerOffspring int
	Logger                  *slog.Logger
	// OnGeneration is called with each summary as soon as it is recorded.
	OnGeneration            func(model.GenerationSummary) error
}

type Individual struct {
	Trait   *genetics.FitnessTrait
	Fitness float64
}

type Result struct {
	Summaries []model.GenerationSummary
	Final     []Individual
}

type Simulation struct {
	cfg    Config
	rng    *random.Service
	log    *slog.Logger
	tracer trace.Tracer
}

func New(cfg Config) (*Simulation, error) {
	if cfg.Species == nil {
		return nil, fmt.Errorf("%w: species is required", ErrInvalidConfig)
	}
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("%w: population size must be > 0", ErrInvalidConfig)
	}
	if cfg.Generations < 0 {
		return nil, fmt.Errorf("%w: generations must be >= 0", ErrInvalidConfig)
	}
	if cfg.MaxAttemptsPerOffspring < 0 {
		return nil, fmt.Errorf("%w: max attempts per offspring must be >= 0", ErrInvalidConfig)
	}
	if cfg.MaxAttemptsPerOffspring == 0 {
		cfg.MaxAttemptsPerOffspring = DefaultMaxAttemptsPerOffspring
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Simulation{
		cfg:    cfg,
		rng:    random.New(cfg.Seed),
		log:    logger,
		tracer: otel.Tracer("geneticload/internal/population"),
	}, nil
}

func (s *Simulation) Run(ctx context.Context) (Result, error) {
	population, err := s.seed()
	if err != nil {
		return Result{}, err
	}
	s.log.Info("simulation started",
		"species", s.cfg.Species.Name(),
		"ploidy", s.cfg.Species.Ploidy(),
		"loci", len(s.cfg.Species.Positions()),
		"size", s.cfg.Size,
		"generations", s.cfg.Generations,
		"seed", s.cfg.Seed,
	)

	summaries := make([]model.GenerationSummary, 0, s.cfg.Generations)
	for gen := 1; gen <= s.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		var summary model.GenerationSummary
		population, summary, err = s.step(ctx, gen, population)
		if err != nil {
			return Result{}, err
		}
		summaries = append(summaries, summary)
		if s.cfg.OnGeneration != nil {
			if err := s.cfg.OnGeneration(summary); err != nil {
				return Result{}, fmt.Errorf("generation %d hook: %w", gen, err)
			}
		}
	}

	final := Result{Summaries: summaries, Final: population}
	if n := len(summaries); n > 0 {
		s.log.Info("simulation finished", "generations", n, "mean_fitness", summaries[n-1].MeanFitness)
	} else {
		s.log.Info("simulation finished", "generations", 0)
	}
	return final, nil
}

func (s *Simulation) seed() ([]Individual, error) {
	population := make([]Individual, s.cfg.Size)
	for i := range population {
		trait, err := genetics.NewFitnessTrait(s.cfg.Species, s.rng)
		if err != nil {
			return nil, err
		}
		population[i] = Individual{Trait: trait, Fitness: trait.Express()}
	}
	return population, nil
}

// step mutates and measures the current generation, then breeds the next.
func (s *Simulation) step(ctx context.Context, gen int, population []Individual) ([]Individual, model.GenerationSummary, error) {
	_, span := s.tracer.Start(ctx, "population.generation", trace.WithAttributes(attribute.Int("generation", gen)))
	defer span.End()

	fitness := make([]float64, len(population))
	heterozygous := make([]int, len(population))
	mutations := make([]int, len(population))
	for i := range population {
		trait := population[i].Trait
		if err := trait.Mutate(); err != nil {
			span.RecordError(err)
			return nil, model.GenerationSummary{}, fmt.Errorf("generation %d: mutate individual %d: %w", gen, i, err)
		}
		population[i].Fitness = trait.Express()
		fitness[i] = population[i].Fitness
		heterozygous[i] = trait.CountHeterozygoteLoci()
		mutations[i] = trait.MutationCount()
	}

	next, attempts, err := s.reproduce(population)
	if err != nil {
		span.RecordError(err)
		return nil, model.GenerationSummary{}, fmt.Errorf("generation %d: %w", gen, err)
	}

	summary, err := stats.Summarize(gen, fitness, heterozygous, mutations, attempts)
	if err != nil {
		return nil, model.GenerationSummary{}, err
	}
	span.SetAttributes(
		attribute.Float64("mean_fitness", summary.MeanFitness),
		attribute.Int("offspring_attempts", attempts),
	)
	s.log.Debug("generation complete",
		"generation", gen,
		"mean_fitness", summary.MeanFitness,
		"min_fitness", summary.MinFitness,
		"mean_heterozygous_loci", summary.MeanHeterozygousLoci,
		"mean_mutations", summary.MeanMutations,
		"attempts", attempts,
	)
	return next, summary, nil
}

// reproduce draws offspring until the population is refilled. Each candidate
// survives with probability equal to its fitness clamped to [0, 1].
func (s *Simulation) reproduce(parents []Individual) ([]Individual, int, error) {
	size := s.cfg.Size
	maxAttempts := size * s.cfg.MaxAttemptsPerOffspring
	next := make([]Individual, 0, size)
	attempts := 0
	for len(next) < size {
		if attempts >= maxAttempts {
			return nil, attempts, fmt.Errorf("%w: %d offspring survived after %d attempts", ErrExtinct, len(next), attempts)
		}
		attempts++

		child, err := s.breed(parents)
		if err != nil {
			return nil, attempts, err
		}
		fitness := child.Express()
		if s.rng.Bernoulli(clamp(fitness)) {
			next = append(next, Individual{Trait: child, Fitness: fitness})
		}
	}
	return next, attempts, nil
}

func (s *Simulation) breed(parents []Individual) (*genetics.FitnessTrait, error) {
	m := s.rng.IntN(len(parents))
	mother := parents[m].Trait
	child := mother.Clone()

	if s.cfg.Species.Ploidy() == 1 {
		if err := child.InheritGenes(true, mother, nil, 0); err != nil {
			return nil, err
		}
		return child, nil
	}

	f := m
	if len(parents) > 1 {
		f = s.rng.IntN(len(parents) - 1)
		if f >= m {
			f++
		}
	}
	father := parents[f].Trait

	sp := s.cfg.Species
	bp, start := drawBreakpoints(s.rng, sp.GenomeSize(), sp.RecombinationRate(), sp.ChromosomeEnds())
	if err := child.InheritGenes(true, mother, bp, start); err != nil {
		return nil, fmt.Errorf("maternal inheritance: %w", err)
	}
	bp, start = drawBreakpoints(s.rng, sp.GenomeSize(), sp.RecombinationRate(), sp.ChromosomeEnds())
	if err := child.InheritGenes(false, father, bp, start); err != nil {
		return nil, fmt.Errorf("paternal inheritance: %w", err)
	}
	return child, nil
}

func clamp(fitness float64) float64 {
	switch {
	case fitness < 0:
		return 0
	case fitness > 1:
		return 1
	default:
		return fitness
	}
}
