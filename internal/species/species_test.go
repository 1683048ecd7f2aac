package species

import (
	"errors"
	"slices"
	"testing"

	"geneticload/internal/genetics"
)

func TestNewSortsPositionsAndDerivesGenomeSize(t *testing.T) {
	sp, err := New(Config{
		Name:         "toad",
		Ploidy:       2,
		Positions:    []int{40, 5, 12},
		MutationRate: 0.01,
	})
	if err != nil {
		t.Fatalf("new species: %v", err)
	}
	if !slices.Equal(sp.Positions(), []int{5, 12, 40}) {
		t.Fatalf("expected sorted positions, got %v", sp.Positions())
	}
	if sp.GenomeSize() != 41 {
		t.Fatalf("expected derived genome size 41, got %d", sp.GenomeSize())
	}
	if sp.Expression() != ExpressionMultiplicative {
		t.Fatalf("expected default multiplicative expression, got %q", sp.Expression())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{name: "ploidy", cfg: Config{Ploidy: 3, Positions: []int{1}}},
		{name: "mutation rate", cfg: Config{Ploidy: 1, Positions: []int{1}, MutationRate: 1.5}},
		{name: "recombination rate", cfg: Config{Ploidy: 2, Positions: []int{1}, RecombinationRate: -0.1}},
		{name: "duplicate positions", cfg: Config{Ploidy: 2, Positions: []int{1, 1}}},
		{name: "negative position", cfg: Config{Ploidy: 2, Positions: []int{-1, 4}}},
		{name: "genome too small", cfg: Config{Ploidy: 2, Positions: []int{1, 50}, GenomeSize: 20}},
		{name: "chromosome end outside genome", cfg: Config{Ploidy: 2, Positions: []int{1, 9}, ChromosomeEnds: []int{10}}},
		{name: "expression policy", cfg: Config{Ploidy: 2, Positions: []int{1}, Expression: "additive"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			if !errors.Is(err, ErrInvalidSpecies) {
				t.Fatalf("expected ErrInvalidSpecies, got %v", err)
			}
		})
	}
}

func TestIsValidTraitValFollowsExpressionPolicy(t *testing.T) {
	multiplicative, err := New(Config{Ploidy: 2, Positions: []int{1}, Expression: ExpressionMultiplicative})
	if err != nil {
		t.Fatalf("new species: %v", err)
	}
	deleterious, err := New(Config{Ploidy: 2, Positions: []int{1}, Expression: ExpressionDeleterious})
	if err != nil {
		t.Fatalf("new species: %v", err)
	}

	cases := []struct {
		v                  float64
		multiplicativeWant bool
		deleteriousWant    bool
	}{
		{v: -1.0, multiplicativeWant: true, deleteriousWant: false},
		{v: -0.2, multiplicativeWant: true, deleteriousWant: false},
		{v: 0, multiplicativeWant: true, deleteriousWant: true},
		{v: 0.7, multiplicativeWant: true, deleteriousWant: true},
		{v: 1.0, multiplicativeWant: true, deleteriousWant: true},
		{v: 1.01, multiplicativeWant: false, deleteriousWant: false},
	}
	for _, tc := range cases {
		if got := multiplicative.IsValidTraitVal(tc.v); got != tc.multiplicativeWant {
			t.Fatalf("multiplicative(%f)=%t want %t", tc.v, got, tc.multiplicativeWant)
		}
		if got := deleterious.IsValidTraitVal(tc.v); got != tc.deleteriousWant {
			t.Fatalf("deleterious(%f)=%t want %t", tc.v, got, tc.deleteriousWant)
		}
	}
}

func TestNewCopiesDistributionParams(t *testing.T) {
	params := map[genetics.Param]float64{genetics.ParamMean: 0.1}
	sp, err := New(Config{
		Ploidy:    2,
		Positions: []int{1},
		Mutation:  genetics.Distribution{Family: genetics.FamilyNegExp, Params: params},
	})
	if err != nil {
		t.Fatalf("new species: %v", err)
	}
	params[genetics.ParamMean] = 0.9
	if got := sp.MutationDistribution().Param(genetics.ParamMean); got != 0.1 {
		t.Fatalf("expected species to keep its own params, got mean=%f", got)
	}
}
