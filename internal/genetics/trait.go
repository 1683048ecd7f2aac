package genetics

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrConfiguration marks an experiment definition that cannot run.
	ErrConfiguration = errors.New("genetic load configuration error")
	// ErrIntegrity marks a genetic state that diverged from its invariants.
	ErrIntegrity     = errors.New("genetic load integrity error")
	ErrLocusNotFound = fmt.Errorf("%w: locus not found", ErrIntegrity)
)

// Species is the species-level configuration a trait reads. Implementations
// must not change any returned value after the first trait is built.
type Species interface {
	Ploidy() int
	// Positions returns the configured loci in ascending order.
	Positions() []int
	MutationRate() float64
	MutationDistribution() Distribution
	DominanceDistribution() Distribution
	IsValidTraitVal(v float64) bool
}

// Random is the subset of the random-number service the trait consumes.
type Random interface {
	Uniform(min, max float64) float64
	Binomial(n int, p float64) int
	Normal(mean, sd float64) float64
	Gamma(shape, scale float64) float64
	NegExp(mean float64) float64
	// Sample returns n distinct elements of values.
	Sample(values []int, n int) []int
}

// Trait is the closed set of per-individual trait kinds. Only FitnessTrait
// lives in this package.
type Trait interface {
	Express() float64
	Mutate() error
	isTrait()
}

// FitnessTrait carries the genetic-load loci of one individual.
type FitnessTrait struct {
	species Species
	rng     Random
	inherit inheritor

	positions []int
	genes     map[int][]Slot
}

func (*FitnessTrait) isTrait() {}

// NewFitnessTrait validates the species configuration and returns a trait
// with every configured locus set to wild type.
func NewFitnessTrait(species Species, rng Random) (*FitnessTrait, error) {
	if species == nil {
		return nil, fmt.Errorf("%w: species is required", ErrConfiguration)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrConfiguration)
	}
	inherit, err := inheritorFor(species.Ploidy())
	if err != nil {
		return nil, err
	}
	if err := species.MutationDistribution().Validate(RoleMutation); err != nil {
		return nil, err
	}
	if err := species.DominanceDistribution().Validate(RoleDominance); err != nil {
		return nil, err
	}

	t := &FitnessTrait{species: species, rng: rng, inherit: inherit}
	t.initialise()
	return t, nil
}

func (t *FitnessTrait) initialise() {
	ploidy := t.species.Ploidy()
	t.positions = slices.Clone(t.species.Positions())
	t.genes = make(map[int][]Slot, len(t.positions))
	for _, pos := range t.positions {
		slots := make([]Slot, ploidy)
		for i := range slots {
			slots[i] = Wild()
		}
		t.genes[pos] = slots
	}
}

// Clone returns an empty trait sharing the species, random source and
// inheritance strategy. Its loci are filled by InheritGenes.
func (t *FitnessTrait) Clone() *FitnessTrait {
	return &FitnessTrait{
		species: t.species,
		rng:     t.rng,
		inherit: t.inherit,
		genes:   make(map[int][]Slot, len(t.positions)),
	}
}

func (t *FitnessTrait) Ploidy() int {
	return t.species.Ploidy()
}

// Positions returns the loci currently present, ascending.
func (t *FitnessTrait) Positions() []int {
	return slices.Clone(t.positions)
}

func (t *FitnessTrait) AlleleAt(copyIndex, position int) (*Allele, error) {
	slots, ok := t.genes[position]
	if !ok {
		return nil, fmt.Errorf("%w: position %d", ErrLocusNotFound, position)
	}
	if copyIndex < 0 || copyIndex >= len(slots) {
		return nil, fmt.Errorf("%w: chromosome copy %d out of range for ploidy %d", ErrIntegrity, copyIndex, len(slots))
	}
	return slots[copyIndex].Allele(), nil
}

// AlleleValueAtLocus returns the selection coefficient at one copy of a locus.
func (t *FitnessTrait) AlleleValueAtLocus(copyIndex, position int) (float64, error) {
	allele, err := t.AlleleAt(copyIndex, position)
	if err != nil {
		return 0, err
	}
	return allele.SelectionCoef(), nil
}

// IsHeterozygoteAtLocus reports whether both copies hold different allele
// instances. Haploid loci are never heterozygous.
func (t *FitnessTrait) IsHeterozygoteAtLocus(position int) (bool, error) {
	slots, ok := t.genes[position]
	if !ok {
		return false, fmt.Errorf("%w: position %d", ErrLocusNotFound, position)
	}
	return heterozygous(slots), nil
}

func (t *FitnessTrait) CountHeterozygoteLoci() int {
	count := 0
	for _, slots := range t.genes {
		if heterozygous(slots) {
			count++
		}
	}
	return count
}

// MutationCount returns the number of slots holding a mutant allele.
func (t *FitnessTrait) MutationCount() int {
	count := 0
	for _, slots := range t.genes {
		for _, slot := range slots {
			if slot.IsMutant() {
				count++
			}
		}
	}
	return count
}

func heterozygous(slots []Slot) bool {
	if len(slots) < 2 {
		return false
	}
	return slots[0].Allele() != slots[1].Allele()
}
