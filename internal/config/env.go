package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds overrides read from the process environment. Nil pointers mean
// the variable was not set and the experiment file wins. An empty Store
// leaves the choice to the build's default backend.
type Env struct {
	Seed           *uint64 `env:"GENETICLOAD_SEED"`
	Generations    *int    `env:"GENETICLOAD_GENERATIONS"`
	PopulationSize *int    `env:"GENETICLOAD_POPULATION_SIZE"`
	Store          string  `env:"GENETICLOAD_STORE"`
	DBPath         string  `env:"GENETICLOAD_DB_PATH"   envDefault:"geneticload.db"`
	LogLevel       string  `env:"GENETICLOAD_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadEnv() (Env, error) {
	var cfg Env
	if err := ParseEnv(&cfg); err != nil {
		return Env{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides population settings that were set in the environment.
func (e *Experiment) ApplyEnv(cfg Env) {
	if cfg.Seed != nil {
		e.Population.Seed = *cfg.Seed
	}
	if cfg.Generations != nil {
		e.Population.Generations = *cfg.Generations
	}
	if cfg.PopulationSize != nil {
		e.Population.Size = *cfg.PopulationSize
	}
}
