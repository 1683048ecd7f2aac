package genetics

import "fmt"

// Mutate draws, for each chromosome copy, a binomial number of loci and gives
// each one a freshly sampled allele. Earlier alleles at those slots are
// replaced.
func (t *FitnessTrait) Mutate() error {
	positions := t.species.Positions()
	rate := t.species.MutationRate()

	for p := 0; p < t.species.Ploidy(); p++ {
		n := t.rng.Binomial(len(positions), rate)
		if n == 0 {
			continue
		}

		for _, pos := range t.rng.Sample(positions, n) {
			slots, ok := t.genes[pos]
			if !ok {
				return fmt.Errorf("%w: position %d sampled for mutation", ErrLocusNotFound, pos)
			}
			s, err := t.drawSelectionCoef()
			if err != nil {
				return err
			}
			h, err := t.drawDominanceCoef(s)
			if err != nil {
				return err
			}
			slots[p] = Mutant(NewAllele(s, h))
		}
	}
	return nil
}

// drawSelectionCoef trusts uniform bounds as already valid; every other
// family is redrawn until the species accepts the value.
func (t *FitnessTrait) drawSelectionCoef() (float64, error) {
	dist := t.species.MutationDistribution()
	switch dist.Family {
	case FamilyUniform:
		return dist.sample(t.rng, 0, nil)
	case FamilyNormal, FamilyGamma, FamilyNegExp:
		return dist.sample(t.rng, 0, t.species.IsValidTraitVal)
	default:
		return 0, fmt.Errorf("%w: unknown mutation distribution %q", ErrConfiguration, dist.Family)
	}
}

func (t *FitnessTrait) drawDominanceCoef(selection float64) (float64, error) {
	dist := t.species.DominanceDistribution()
	switch dist.Family {
	case FamilyNormal:
		return dist.sample(t.rng, selection, positive)
	case FamilyUniform, FamilyGamma, FamilyNegExp, FamilyScaled:
		return dist.sample(t.rng, selection, nil)
	default:
		return 0, fmt.Errorf("%w: unknown dominance distribution %q", ErrConfiguration, dist.Family)
	}
}

func positive(v float64) bool {
	return v > 0
}
