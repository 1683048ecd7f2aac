package population

import (
	"context"
	"errors"
	"testing"

	"geneticload/internal/genetics"
	"geneticload/internal/model"
	"geneticload/internal/species"
)

func newSpecies(t *testing.T, ploidy int, rate float64, mutation, dominance genetics.Distribution) *species.Species {
	t.Helper()
	positions := make([]int, 50)
	for i := range positions {
		positions[i] = i * 2
	}
	sp, err := species.New(species.Config{
		Name:              "test",
		Ploidy:            ploidy,
		Positions:         positions,
		ChromosomeEnds:    []int{49},
		MutationRate:      rate,
		RecombinationRate: 0.01,
		Mutation:          mutation,
		Dominance:         dominance,
	})
	if err != nil {
		t.Fatalf("new species: %v", err)
	}
	return sp
}

func uniform(min, max float64) genetics.Distribution {
	return genetics.Distribution{
		Family: genetics.FamilyUniform,
		Params: map[genetics.Param]float64{genetics.ParamMin: min, genetics.ParamMax: max},
	}
}

func TestNewValidatesConfig(t *testing.T) {
	sp := newSpecies(t, 2, 0.01, uniform(0, 0.1), uniform(0, 1))
	cases := []struct {
		name string
		cfg  Config
	}{
		{name: "missing species", cfg: Config{Size: 10, Generations: 1}},
		{name: "empty population", cfg: Config{Species: sp, Generations: 1}},
		{name: "negative generations", cfg: Config{Species: sp, Size: 10, Generations: -1}},
		{name: "negative attempts", cfg: Config{Species: sp, Size: 10, MaxAttemptsPerOffspring: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRunWithoutMutationKeepsWildType(t *testing.T) {
	for _, ploidy := range []int{1, 2} {
		sim, err := New(Config{
			Species:     newSpecies(t, ploidy, 0, uniform(0, 0.1), uniform(0, 1)),
			Size:        8,
			Generations: 3,
			Seed:        1,
		})
		if err != nil {
			t.Fatalf("ploidy %d: new: %v", ploidy, err)
		}
		result, err := sim.Run(context.Background())
		if err != nil {
			t.Fatalf("ploidy %d: run: %v", ploidy, err)
		}
		if len(result.Summaries) != 3 || len(result.Final) != 8 {
			t.Fatalf("ploidy %d: unexpected result sizes summaries=%d final=%d", ploidy, len(result.Summaries), len(result.Final))
		}
		for _, s := range result.Summaries {
			if s.MeanFitness != 1 || s.MeanMutations != 0 || s.MeanHeterozygousLoci != 0 {
				t.Fatalf("ploidy %d: expected wild-type generation, got %+v", ploidy, s)
			}
			if s.OffspringAttempts != 8 {
				t.Fatalf("ploidy %d: expected every offspring to survive, got %d attempts", ploidy, s.OffspringAttempts)
			}
		}
	}
}

func TestRunIsReproducibleForSeed(t *testing.T) {
	sp := newSpecies(t, 2, 0.05, uniform(0, 0.05), uniform(0, 1))
	runOnce := func() []model.GenerationSummary {
		sim, err := New(Config{Species: sp, Size: 20, Generations: 5, Seed: 42})
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		result, err := sim.Run(context.Background())
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return result.Summaries
	}
	first, second := runOnce(), runOnce()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("generation %d differs: %+v vs %+v", i+1, first[i], second[i])
		}
	}
	if first[len(first)-1].MeanMutations == 0 {
		t.Fatal("expected mutations to accumulate")
	}
	if first[len(first)-1].MeanFitness >= 1 {
		t.Fatal("expected deleterious load to lower mean fitness")
	}
}

func TestRunReportsExtinction(t *testing.T) {
	sim, err := New(Config{
		Species:                 newSpecies(t, 1, 1, uniform(1, 1), uniform(1, 1)),
		Size:                    4,
		Generations:             2,
		MaxAttemptsPerOffspring: 3,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := sim.Run(context.Background()); !errors.Is(err, ErrExtinct) {
		t.Fatalf("expected ErrExtinct, got %v", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	sim, err := New(Config{Species: newSpecies(t, 2, 0.01, uniform(0, 0.1), uniform(0, 1)), Size: 4, Generations: 10})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sim.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunCallsGenerationHook(t *testing.T) {
	var seen []int
	hookErr := errors.New("disk full")
	sim, err := New(Config{
		Species:     newSpecies(t, 2, 0.01, uniform(0, 0.1), uniform(0, 1)),
		Size:        4,
		Generations: 3,
		OnGeneration: func(s model.GenerationSummary) error {
			seen = append(seen, s.Generation)
			if s.Generation == 2 {
				return hookErr
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := sim.Run(context.Background()); !errors.Is(err, hookErr) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("unexpected hook calls %v", seen)
	}
}

func TestClamp(t *testing.T) {
	for in, want := range map[float64]float64{-0.5: 0, 0: 0, 0.3: 0.3, 1: 1, 1.7: 1} {
		if got := clamp(in); got != want {
			t.Fatalf("clamp(%f): got %f want %f", in, got, want)
		}
	}
}
