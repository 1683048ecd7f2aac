// Package species holds the species-level genetic load configuration that
// every individual's trait reads.
package species

import (
	"errors"
	"fmt"
	"slices"

	"geneticload/internal/genetics"
)

// ExpressionPolicy decides which selection coefficients a mutation may carry.
type ExpressionPolicy string

const (
	// ExpressionMultiplicative allows beneficial mutations: s in [-1, 1].
	ExpressionMultiplicative ExpressionPolicy = "multiplicative"
	// ExpressionDeleterious only allows harmful mutations: s in [0, 1].
	ExpressionDeleterious ExpressionPolicy = "deleterious"
)

var ErrInvalidSpecies = errors.New("invalid species configuration")

type Config struct {
	Name              string
	Ploidy            int
	Positions         []int
	ChromosomeEnds    []int
	GenomeSize        int
	MutationRate      float64
	RecombinationRate float64
	Expression        ExpressionPolicy
	Mutation          genetics.Distribution
	Dominance         genetics.Distribution
}

// Species is immutable once built and implements genetics.Species.
type Species struct {
	name              string
	ploidy            int
	positions         []int
	chromosomeEnds    []int
	genomeSize        int
	mutationRate      float64
	recombinationRate float64
	expression        ExpressionPolicy
	mutation          genetics.Distribution
	dominance         genetics.Distribution
}

func New(cfg Config) (*Species, error) {
	if cfg.Ploidy != 1 && cfg.Ploidy != 2 {
		return nil, fmt.Errorf("%w: ploidy must be 1 or 2, got %d", ErrInvalidSpecies, cfg.Ploidy)
	}
	if cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("%w: mutation rate must be in [0, 1]", ErrInvalidSpecies)
	}
	if cfg.RecombinationRate < 0 || cfg.RecombinationRate > 1 {
		return nil, fmt.Errorf("%w: recombination rate must be in [0, 1]", ErrInvalidSpecies)
	}
	switch cfg.Expression {
	case "":
		cfg.Expression = ExpressionMultiplicative
	case ExpressionMultiplicative, ExpressionDeleterious:
	default:
		return nil, fmt.Errorf("%w: unknown expression policy %q", ErrInvalidSpecies, cfg.Expression)
	}

	positions := slices.Clone(cfg.Positions)
	slices.Sort(positions)
	if len(slices.Compact(slices.Clone(positions))) != len(positions) {
		return nil, fmt.Errorf("%w: locus positions must be unique", ErrInvalidSpecies)
	}
	if len(positions) > 0 && positions[0] < 0 {
		return nil, fmt.Errorf("%w: locus positions must be >= 0", ErrInvalidSpecies)
	}

	genomeSize := cfg.GenomeSize
	if len(positions) > 0 && genomeSize <= positions[len(positions)-1] {
		if genomeSize != 0 {
			return nil, fmt.Errorf("%w: genome size %d does not cover locus %d", ErrInvalidSpecies, genomeSize, positions[len(positions)-1])
		}
		genomeSize = positions[len(positions)-1] + 1
	}

	ends := slices.Clone(cfg.ChromosomeEnds)
	slices.Sort(ends)
	ends = slices.Compact(ends)
	for _, end := range ends {
		if end < 0 || end >= genomeSize {
			return nil, fmt.Errorf("%w: chromosome end %d outside genome of size %d", ErrInvalidSpecies, end, genomeSize)
		}
	}

	return &Species{
		name:              cfg.Name,
		ploidy:            cfg.Ploidy,
		positions:         positions,
		chromosomeEnds:    ends,
		genomeSize:        genomeSize,
		mutationRate:      cfg.MutationRate,
		recombinationRate: cfg.RecombinationRate,
		expression:        cfg.Expression,
		mutation:          cloneDistribution(cfg.Mutation),
		dominance:         cloneDistribution(cfg.Dominance),
	}, nil
}

func cloneDistribution(d genetics.Distribution) genetics.Distribution {
	out := genetics.Distribution{Family: d.Family}
	if d.Params != nil {
		out.Params = make(map[genetics.Param]float64, len(d.Params))
		for k, v := range d.Params {
			out.Params[k] = v
		}
	}
	return out
}

func (s *Species) Name() string { return s.name }

func (s *Species) Ploidy() int { return s.ploidy }

// Positions returns the shared sorted slice; callers must not modify it.
func (s *Species) Positions() []int { return s.positions }

func (s *Species) MutationRate() float64 { return s.mutationRate }

func (s *Species) MutationDistribution() genetics.Distribution { return s.mutation }

func (s *Species) DominanceDistribution() genetics.Distribution { return s.dominance }

func (s *Species) Expression() ExpressionPolicy { return s.expression }

// GenomeSize is one past the last coordinate recombination may hit.
func (s *Species) GenomeSize() int { return s.genomeSize }

// ChromosomeEnds are the last coordinates of each chromosome but the final
// one. They are candidate breakpoints under independent assortment.
func (s *Species) ChromosomeEnds() []int { return s.chromosomeEnds }

func (s *Species) RecombinationRate() float64 { return s.recombinationRate }

func (s *Species) IsValidTraitVal(v float64) bool {
	switch s.expression {
	case ExpressionDeleterious:
		return v >= 0 && v <= 1
	default:
		return v >= -1 && v <= 1
	}
}
