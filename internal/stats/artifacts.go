package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"geneticload/internal/model"
)

var summaryHeader = []string{
	"generation",
	"population_size",
	"mean_fitness",
	"fitness_std_dev",
	"min_fitness",
	"max_fitness",
	"mean_heterozygous_loci",
	"mean_mutations",
	"offspring_attempts",
}

func WriteSummariesCSV(w io.Writer, summaries []model.GenerationSummary) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(summaryHeader); err != nil {
		return err
	}
	for _, s := range summaries {
		if err := writer.Write([]string{
			strconv.Itoa(s.Generation),
			strconv.Itoa(s.PopulationSize),
			formatFloat(s.MeanFitness),
			formatFloat(s.FitnessStdDev),
			formatFloat(s.MinFitness),
			formatFloat(s.MaxFitness),
			formatFloat(s.MeanHeterozygousLoci),
			formatFloat(s.MeanMutations),
			strconv.Itoa(s.OffspringAttempts),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadSummariesCSV(r io.Reader) ([]model.GenerationSummary, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []model.GenerationSummary{}, nil
		}
		return nil, err
	}
	if len(header) != len(summaryHeader) {
		return nil, fmt.Errorf("summary header must have %d columns, got %d", len(summaryHeader), len(header))
	}

	var out []model.GenerationSummary
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		summary, err := parseSummaryRow(record)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, nil
}

func parseSummaryRow(record []string) (model.GenerationSummary, error) {
	ints := make([]int, 3)
	for i, col := range []int{0, 1, 8} {
		v, err := strconv.Atoi(record[col])
		if err != nil {
			return model.GenerationSummary{}, fmt.Errorf("parse %s: %w", summaryHeader[col], err)
		}
		ints[i] = v
	}
	fl := make([]float64, 6)
	for i := range fl {
		v, err := strconv.ParseFloat(record[i+2], 64)
		if err != nil {
			return model.GenerationSummary{}, fmt.Errorf("parse %s: %w", summaryHeader[i+2], err)
		}
		fl[i] = v
	}
	return model.GenerationSummary{
		Generation:           ints[0],
		PopulationSize:       ints[1],
		MeanFitness:          fl[0],
		FitnessStdDev:        fl[1],
		MinFitness:           fl[2],
		MaxFitness:           fl[3],
		MeanHeterozygousLoci: fl[4],
		MeanMutations:        fl[5],
		OffspringAttempts:    ints[2],
	}, nil
}

// ExportRun writes run.json and summaries.csv under outDir/<run id> and
// returns that directory.
func ExportRun(outDir string, run model.RunRecord, summaries []model.GenerationSummary) (string, error) {
	if run.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	dst := filepath.Join(outDir, run.ID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dst, "run.json"), run); err != nil {
		return "", err
	}

	file, err := os.Create(filepath.Join(dst, "summaries.csv"))
	if err != nil {
		return "", err
	}
	defer file.Close()
	if err := WriteSummariesCSV(file, summaries); err != nil {
		return "", err
	}
	return dst, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
