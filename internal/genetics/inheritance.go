package genetics

import (
	"fmt"
	"slices"
	"sort"
)

const (
	maternal = 0
	paternal = 1
)

// inheritor fills an offspring's loci from one parent. The implementation is
// picked from the ploidy when the trait is constructed and never changes.
type inheritor interface {
	inherit(offspring, parent *FitnessTrait, fromMother bool, breakpoints []int, startCopy int) error
}

func inheritorFor(ploidy int) (inheritor, error) {
	switch ploidy {
	case 1:
		return haploidInheritance{}, nil
	case 2:
		return diploidInheritance{}, nil
	default:
		return nil, fmt.Errorf("%w: ploidy must be 1 or 2, got %d", ErrConfiguration, ploidy)
	}
}

// InheritGenes copies alleles from parent into t. It is called once per
// parent, mother first for diploid species. breakpoints and startCopy are
// ignored for haploid species.
func (t *FitnessTrait) InheritGenes(fromMother bool, parent Trait, breakpoints []int, startCopy int) error {
	switch p := parent.(type) {
	case *FitnessTrait:
		if p == nil {
			return fmt.Errorf("%w: parent trait is nil", ErrIntegrity)
		}
		return t.inherit.inherit(t, p, fromMother, breakpoints, startCopy)
	default:
		return fmt.Errorf("%w: cannot inherit genetic load from %T", ErrIntegrity, parent)
	}
}

type haploidInheritance struct{}

func (haploidInheritance) inherit(offspring, parent *FitnessTrait, _ bool, _ []int, _ int) error {
	offspring.positions = slices.Clone(parent.positions)
	offspring.genes = make(map[int][]Slot, len(parent.genes))
	for pos, slots := range parent.genes {
		offspring.genes[pos] = slices.Clone(slots)
	}
	return nil
}

type diploidInheritance struct{}

// inherit walks the parent's loci left to right. The active parental copy
// starts at startCopy, adjusted for breakpoints lying before the first locus,
// and flips each time the walk passes a breakpoint. A locus sitting exactly on
// a breakpoint still reads from the copy before the switch.
func (diploidInheritance) inherit(offspring, parent *FitnessTrait, fromMother bool, breakpoints []int, startCopy int) error {
	if startCopy != 0 && startCopy != 1 {
		return fmt.Errorf("%w: starting chromosome copy must be 0 or 1, got %d", ErrIntegrity, startCopy)
	}
	if len(parent.positions) == 0 {
		return nil
	}
	sites := normalizeBreakpoints(breakpoints)

	active := startCopy
	next := sort.SearchInts(sites, parent.positions[0])
	if next%2 != 0 {
		active = 1 - active
	}

	for _, pos := range parent.positions {
		for next < len(sites) && pos > sites[next] {
			next++
			active = 1 - active
		}

		slots := parent.genes[pos]
		if len(slots) != 2 {
			return fmt.Errorf("%w: parent locus %d has %d copies, want 2", ErrIntegrity, pos, len(slots))
		}
		inherited := slots[active]
		if !inherited.Filled() {
			inherited = Wild()
		}

		existing, ok := offspring.genes[pos]
		if fromMother {
			if ok {
				return fmt.Errorf("%w: mother-inherited locus %d already exists", ErrIntegrity, pos)
			}
			offspring.genes[pos] = []Slot{maternal: inherited, paternal: {}}
			offspring.positions = append(offspring.positions, pos)
			continue
		}
		if !ok {
			return fmt.Errorf("%w: father-inherited locus %d does not exist", ErrIntegrity, pos)
		}
		if existing[paternal].Filled() {
			return fmt.Errorf("%w: paternal allele at locus %d already inherited", ErrIntegrity, pos)
		}
		existing[paternal] = inherited
	}
	return nil
}

// normalizeBreakpoints returns a sorted copy without duplicates.
func normalizeBreakpoints(breakpoints []int) []int {
	if len(breakpoints) == 0 {
		return nil
	}
	sites := slices.Clone(breakpoints)
	slices.Sort(sites)
	return slices.Compact(sites)
}
