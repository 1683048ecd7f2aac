package genetics

import "math"

type testSpecies struct {
	ploidy    int
	positions []int
	rate      float64
	mutation  Distribution
	dominance Distribution
	valid     func(float64) bool
}

func (s testSpecies) Ploidy() int                         { return s.ploidy }
func (s testSpecies) Positions() []int                    { return s.positions }
func (s testSpecies) MutationRate() float64               { return s.rate }
func (s testSpecies) MutationDistribution() Distribution  { return s.mutation }
func (s testSpecies) DominanceDistribution() Distribution { return s.dominance }

func (s testSpecies) IsValidTraitVal(v float64) bool {
	if s.valid == nil {
		return v >= -1 && v <= 1
	}
	return s.valid(v)
}

func newTestSpecies(ploidy int, positions ...int) testSpecies {
	return testSpecies{
		ploidy:    ploidy,
		positions: positions,
		rate:      0.01,
		mutation:  uniformDist(-1, 1),
		dominance: uniformDist(0, 1),
	}
}

func uniformDist(min, max float64) Distribution {
	return Distribution{Family: FamilyUniform, Params: map[Param]float64{ParamMin: min, ParamMax: max}}
}

func normalDist(mean, sd float64) Distribution {
	return Distribution{Family: FamilyNormal, Params: map[Param]float64{ParamMean: mean, ParamSD: sd}}
}

// scriptedRandom replays fixed draws. Each stream panics when exhausted.
type scriptedRandom struct {
	uniforms  []float64
	normals   []float64
	gammas    []float64
	negexps   []float64
	binomials []int
	samples   [][]int

	uniformBounds [][2]float64
}

func (r *scriptedRandom) Uniform(min, max float64) float64 {
	r.uniformBounds = append(r.uniformBounds, [2]float64{min, max})
	return pop(&r.uniforms)
}

func (r *scriptedRandom) Binomial(int, float64) int       { return pop(&r.binomials) }
func (r *scriptedRandom) Normal(float64, float64) float64 { return pop(&r.normals) }
func (r *scriptedRandom) Gamma(float64, float64) float64  { return pop(&r.gammas) }
func (r *scriptedRandom) NegExp(float64) float64          { return pop(&r.negexps) }
func (r *scriptedRandom) Sample([]int, int) []int         { return pop(&r.samples) }

func pop[T any](stream *[]T) T {
	if len(*stream) == 0 {
		panic("scripted random stream exhausted")
	}
	v := (*stream)[0]
	*stream = (*stream)[1:]
	return v
}

// constRandom returns the same value from every continuous draw.
type constRandom struct{ v float64 }

func (r constRandom) Uniform(float64, float64) float64 { return r.v }
func (r constRandom) Binomial(int, float64) int        { return 0 }
func (r constRandom) Normal(float64, float64) float64  { return r.v }
func (r constRandom) Gamma(float64, float64) float64   { return r.v }
func (r constRandom) NegExp(float64) float64           { return r.v }
func (r constRandom) Sample(v []int, n int) []int      { return v[:n] }

func setAllele(t *FitnessTrait, copyIndex, position int, a *Allele) {
	t.genes[position][copyIndex] = Mutant(a)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12
}
