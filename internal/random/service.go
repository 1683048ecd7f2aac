// Package random provides the seeded random-number service shared by one
// simulation. A Service is not safe for concurrent use.
package random

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/sampleuv"
)

type Service struct {
	src rand.Source
	rnd *rand.Rand
}

func New(seed uint64) *Service {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Service{src: src, rnd: rand.New(src)}
}

// Uniform returns a value in [min, max).
func (s *Service) Uniform(min, max float64) float64 {
	if min == max {
		return min
	}
	return distuv.Uniform{Min: min, Max: max, Src: s.src}.Rand()
}

func (s *Service) Binomial(n int, p float64) int {
	switch {
	case n <= 0 || p <= 0:
		return 0
	case p >= 1:
		return n
	}
	return int(distuv.Binomial{N: float64(n), P: p, Src: s.src}.Rand())
}

func (s *Service) Normal(mean, sd float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: sd, Src: s.src}.Rand()
}

// Gamma draws with the shape/scale parameterisation.
func (s *Service) Gamma(shape, scale float64) float64 {
	return distuv.Gamma{Alpha: shape, Beta: 1 / scale, Src: s.src}.Rand()
}

// NegExp draws from a negative exponential with the given mean.
func (s *Service) NegExp(mean float64) float64 {
	return distuv.Exponential{Rate: 1 / mean, Src: s.src}.Rand()
}

func (s *Service) Bernoulli(p float64) bool {
	return distuv.Bernoulli{P: p, Src: s.src}.Rand() == 1
}

// IntN returns a value in [0, n). It panics if n <= 0.
func (s *Service) IntN(n int) int {
	return s.rnd.IntN(n)
}

// Sample returns n distinct elements of values, in draw order. It panics if
// n exceeds len(values), mirroring the gonum sampler.
func (s *Service) Sample(values []int, n int) []int {
	if n <= 0 {
		return nil
	}
	if n > len(values) {
		panic(fmt.Sprintf("random: sample size %d exceeds population %d", n, len(values)))
	}
	idxs := make([]int, n)
	sampleuv.WithoutReplacement(idxs, len(values), s.src)
	out := make([]int, n)
	for i, idx := range idxs {
		out[i] = values[idx]
	}
	return out
}
