package population

import "slices"

type meiosisRandom interface {
	Binomial(n int, p float64) int
	IntN(n int) int
	Bernoulli(p float64) bool
}

// drawBreakpoints returns the crossover sites and starting copy for one
// gamete. Sites are uniform over the genome; each chromosome end is added
// with probability one half so unlinked chromosomes assort independently.
func drawBreakpoints(rng meiosisRandom, genomeSize int, rate float64, chromosomeEnds []int) ([]int, int) {
	count := rng.Binomial(genomeSize, rate)
	breakpoints := make([]int, 0, count+len(chromosomeEnds))
	for range count {
		breakpoints = append(breakpoints, rng.IntN(genomeSize))
	}
	for _, end := range chromosomeEnds {
		if rng.Bernoulli(0.5) {
			breakpoints = append(breakpoints, end)
		}
	}
	slices.Sort(breakpoints)
	breakpoints = slices.Compact(breakpoints)

	startCopy := 0
	if rng.Bernoulli(0.5) {
		startCopy = 1
	}
	return breakpoints, startCopy
}
