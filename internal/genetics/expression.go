package genetics

// Express folds the loci into a multiplicative viability. Each locus weights
// the two selection coefficients by their relative dominance; for haploid
// species the second copy contributes nothing.
func (t *FitnessTrait) Express() float64 {
	diploid := t.species.Ploidy() == 2
	fitness := 1.0
	for _, pos := range t.positions {
		slots := t.genes[pos]
		a := slots[0].Allele()
		sA, hA := a.SelectionCoef(), a.DominanceCoef()

		var sB, hB float64
		if diploid {
			b := slots[1].Allele()
			sB, hB = b.SelectionCoef(), b.DominanceCoef()
		}

		hLocus := 0.0
		if sum := hA + hB; sum != 0 {
			hLocus = hA / sum
		}
		fitness *= 1 - hLocus*sA - (1-hLocus)*sB
	}
	return fitness
}
