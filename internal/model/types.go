package model

import "time"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord describes one simulation run. Genomes are never persisted; only
// the run definition and its per-generation summaries are.
type RunRecord struct {
	VersionedRecord
	ID             string    `json:"id"`
	SpeciesName    string    `json:"species_name"`
	Ploidy         int       `json:"ploidy"`
	LocusCount     int       `json:"locus_count"`
	Seed           uint64    `json:"seed"`
	PopulationSize int       `json:"population_size"`
	Generations    int       `json:"generations"`
	CreatedAt      time.Time `json:"created_at"`
}

type GenerationSummary struct {
	Generation           int     `json:"generation"`
	PopulationSize       int     `json:"population_size"`
	MeanFitness          float64 `json:"mean_fitness"`
	FitnessStdDev        float64 `json:"fitness_std_dev"`
	MinFitness           float64 `json:"min_fitness"`
	MaxFitness           float64 `json:"max_fitness"`
	MeanHeterozygousLoci float64 `json:"mean_heterozygous_loci"`
	MeanMutations        float64 `json:"mean_mutations"`
	OffspringAttempts    int     `json:"offspring_attempts"`
}

// GenerationSummaries is the persisted envelope for one run's summaries.
type GenerationSummaries struct {
	VersionedRecord
	RunID     string              `json:"run_id"`
	Summaries []GenerationSummary `json:"summaries"`
}
