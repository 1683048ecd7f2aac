// Package config loads experiment definitions from YAML and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"geneticload/internal/genetics"
	"geneticload/internal/species"

	"gopkg.in/yaml.v3"
)

var ErrInvalidExperiment = errors.New("invalid experiment definition")

type Experiment struct {
	Species    SpeciesFile    `yaml:"species"`
	Population PopulationFile `yaml:"population"`
}

type SpeciesFile struct {
	Name              string           `yaml:"name"`
	Ploidy            int              `yaml:"ploidy"`
	Positions         string           `yaml:"positions"`
	ChromosomeEnds    []int            `yaml:"chromosome_ends"`
	GenomeSize        int              `yaml:"genome_size"`
	MutationRate      float64          `yaml:"mutation_rate"`
	RecombinationRate float64          `yaml:"recombination_rate"`
	Expression        string           `yaml:"expression"`
	Mutation          DistributionFile `yaml:"mutation"`
	Dominance         DistributionFile `yaml:"dominance"`
}

type DistributionFile struct {
	Distribution string             `yaml:"distribution"`
	Parameters   map[string]float64 `yaml:"parameters"`
}

type PopulationFile struct {
	Size                    int    `yaml:"size"`
	Generations             int    `yaml:"generations"`
	Seed                    uint64 `yaml:"seed"`
	MaxAttemptsPerOffspring int    `yaml:"max_attempts_per_offspring"`
}

func Load(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, err
	}
	return Parse(data)
}

func Parse(data []byte) (Experiment, error) {
	var exp Experiment
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return Experiment{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return exp, nil
}

// BuildSpecies resolves the species section into an immutable species.
func (e Experiment) BuildSpecies() (*species.Species, error) {
	positions, err := ParsePositions(e.Species.Positions)
	if err != nil {
		return nil, err
	}
	return species.New(species.Config{
		Name:              e.Species.Name,
		Ploidy:            e.Species.Ploidy,
		Positions:         positions,
		ChromosomeEnds:    e.Species.ChromosomeEnds,
		GenomeSize:        e.Species.GenomeSize,
		MutationRate:      e.Species.MutationRate,
		RecombinationRate: e.Species.RecombinationRate,
		Expression:        species.ExpressionPolicy(strings.ToLower(e.Species.Expression)),
		Mutation:          e.Species.Mutation.toDistribution(),
		Dominance:         e.Species.Dominance.toDistribution(),
	})
}

func (d DistributionFile) toDistribution() genetics.Distribution {
	out := genetics.Distribution{Family: genetics.Family(strings.ToLower(d.Distribution))}
	if len(d.Parameters) > 0 {
		out.Params = make(map[genetics.Param]float64, len(d.Parameters))
		for k, v := range d.Parameters {
			out.Params[genetics.Param(strings.ToLower(k))] = v
		}
	}
	return out
}

// ParsePositions expands a locus list such as "0-99,250,400-410" into
// individual positions. Ranges are inclusive.
func ParsePositions(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("%w: species positions are required", ErrInvalidExperiment)
	}
	var out []int
	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		lo, hi, isRange := strings.Cut(token, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%w: position %q", ErrInvalidExperiment, token)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, fmt.Errorf("%w: position range %q", ErrInvalidExperiment, token)
			}
			if end < start {
				return nil, fmt.Errorf("%w: position range %q is reversed", ErrInvalidExperiment, token)
			}
		}
		for pos := start; pos <= end; pos++ {
			out = append(out, pos)
		}
	}
	return out, nil
}
