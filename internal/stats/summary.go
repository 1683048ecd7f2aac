package stats

import (
	"fmt"

	"geneticload/internal/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize reduces one generation's per-individual measurements. The three
// slices are indexed by individual and must have equal length.
func Summarize(generation int, fitness []float64, heterozygous, mutations []int, attempts int) (model.GenerationSummary, error) {
	if len(heterozygous) != len(fitness) || len(mutations) != len(fitness) {
		return model.GenerationSummary{}, fmt.Errorf("summary input length mismatch: fitness=%d heterozygous=%d mutations=%d",
			len(fitness), len(heterozygous), len(mutations))
	}
	summary := model.GenerationSummary{
		Generation:        generation,
		PopulationSize:    len(fitness),
		OffspringAttempts: attempts,
	}
	if len(fitness) == 0 {
		return summary, nil
	}

	summary.MeanFitness, summary.FitnessStdDev = meanStd(fitness)
	summary.MinFitness = floats.Min(fitness)
	summary.MaxFitness = floats.Max(fitness)
	summary.MeanHeterozygousLoci = stat.Mean(toFloats(heterozygous), nil)
	summary.MeanMutations = stat.Mean(toFloats(mutations), nil)
	return summary, nil
}

func meanStd(values []float64) (float64, float64) {
	if len(values) < 2 {
		return stat.Mean(values, nil), 0
	}
	return stat.MeanStdDev(values, nil)
}

func toFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
