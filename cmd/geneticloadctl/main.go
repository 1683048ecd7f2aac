package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"geneticload/internal/config"
	"geneticload/internal/genetics"
	"geneticload/internal/model"
	"geneticload/internal/platform"
	"geneticload/internal/random"
	"geneticload/internal/stats"
	"geneticload/internal/storage"
	"geneticload/internal/telemetry"
)

const exportsDir = "exports"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "validate":
		return runValidate(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "summary":
		return runSummary(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runValidate(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	configPath := fs.String("config", "", "experiment YAML file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return errors.New("validate requires --config")
	}

	exp, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	sp, err := exp.BuildSpecies()
	if err != nil {
		return err
	}
	// Building one trait runs the distribution checks the simulation relies on.
	if _, err := genetics.NewFitnessTrait(sp, random.New(exp.Population.Seed)); err != nil {
		return err
	}

	fmt.Printf("valid species=%s loci=%d ploidy=%d\n", sp.Name(), len(sp.Positions()), sp.Ploidy())
	return nil
}

func runRun(ctx context.Context, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "experiment YAML file")
	storeKind, dbPath := storeFlags(fs, env)
	seed := fs.Uint64("seed", 0, "random seed (overrides file and env)")
	generations := fs.Int("generations", 0, "generations to simulate (overrides file and env)")
	size := fs.Int("population", 0, "population size (overrides file and env)")
	runID := fs.String("run-id", "", "run id (generated when empty)")
	csvPath := fs.String("csv", "", "optional path for a CSV copy of the generation summaries")
	logLevel := fs.String("log-level", env.LogLevel, "log level: debug|info|warn|error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return errors.New("run requires --config")
	}

	logger, err := newLogger(*logLevel)
	if err != nil {
		return err
	}

	exp, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	exp.ApplyEnv(env)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			exp.Population.Seed = *seed
		case "generations":
			exp.Population.Generations = *generations
		case "population":
			exp.Population.Size = *size
		}
	})

	sp, err := exp.BuildSpecies()
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, "geneticloadctl")
	if err != nil {
		return err
	}
	defer func() {
		_ = shutdown(context.Background())
	}()

	store, err := storage.NewStore(*storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	polis := platform.NewPolis(platform.Config{Store: store, Logger: logger})
	if err := polis.Init(ctx); err != nil {
		return err
	}
	if err := polis.RegisterSpecies(sp); err != nil {
		return err
	}

	result, err := polis.Run(ctx, platform.RunConfig{
		RunID:                   *runID,
		SpeciesName:             sp.Name(),
		PopulationSize:          exp.Population.Size,
		Generations:             exp.Population.Generations,
		Seed:                    exp.Population.Seed,
		MaxAttemptsPerOffspring: exp.Population.MaxAttemptsPerOffspring,
	})
	if err != nil {
		return err
	}

	if *csvPath != "" {
		if err := writeCSV(*csvPath, result.Summaries); err != nil {
			return err
		}
	}

	finalMean := 1.0
	if n := len(result.Summaries); n > 0 {
		finalMean = result.Summaries[n-1].MeanFitness
	}
	fmt.Printf("run completed run_id=%s species=%s generations=%d final_mean_fitness=%.6f\n",
		result.Run.ID, sp.Name(), len(result.Summaries), finalMean)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs, env)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	store, err := openStore(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	runs, err := store.ListRuns(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if len(runs) > *limit {
		runs = runs[len(runs)-*limit:]
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	for _, r := range runs {
		fmt.Printf("run_id=%s created_at=%s species=%s ploidy=%d loci=%d seed=%d pop=%d gens=%d\n",
			r.ID,
			r.CreatedAt.Format(time.RFC3339),
			r.SpeciesName,
			r.Ploidy,
			r.LocusCount,
			r.Seed,
			r.PopulationSize,
			r.Generations,
		)
	}
	return nil
}

func runSummary(ctx context.Context, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("summary", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs, env)
	runID := fs.String("run-id", "", "run id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("summary requires --run-id")
	}

	store, err := openStore(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	summaries, ok, err := store.GetGenerationSummaries(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("generation summaries not found for run: %s", *runID)
	}
	for _, s := range summaries {
		fmt.Printf("generation=%d pop=%d mean_fitness=%.6f sd=%.6f min=%.6f max=%.6f het_loci=%.4f mutations=%.4f attempts=%d\n",
			s.Generation,
			s.PopulationSize,
			s.MeanFitness,
			s.FitnessStdDev,
			s.MinFitness,
			s.MaxFitness,
			s.MeanHeterozygousLoci,
			s.MeanMutations,
			s.OffspringAttempts,
		)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs, env)
	runID := fs.String("run-id", "", "run id")
	outDir := fs.String("out", exportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("export requires --run-id")
	}

	store, err := openStore(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.CloseIfSupported(store)
	}()

	record, ok, err := store.GetRun(ctx, *runID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("run not found: %s", *runID)
	}
	summaries, _, err := store.GetGenerationSummaries(ctx, *runID)
	if err != nil {
		return err
	}

	exportedDir, err := stats.ExportRun(*outDir, record, summaries)
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s to=%s\n", *runID, filepath.Clean(exportedDir))
	return nil
}

func storeFlags(fs *flag.FlagSet, env config.Env) (*string, *string) {
	kind := env.Store
	if kind == "" {
		kind = storage.DefaultStoreKind()
	}
	storeKind := fs.String("store", kind, "store backend: memory|sqlite")
	dbPath := fs.String("db-path", env.DBPath, "sqlite database path")
	return storeKind, dbPath
}

func openStore(ctx context.Context, kind, path string) (storage.Store, error) {
	store, err := storage.NewStore(kind, path)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		_ = storage.CloseIfSupported(store)
		return nil, err
	}
	return store, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func writeCSV(path string, summaries []model.GenerationSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := stats.WriteSummariesCSV(file, summaries); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: geneticloadctl <validate|run|runs|summary|export> [flags]", msg)
}
