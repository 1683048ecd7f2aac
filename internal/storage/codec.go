package storage

import (
	"encoding/json"
	"errors"

	"geneticload/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// CurrentVersion stamps records written by this build.
func CurrentVersion() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeRun(run model.RunRecord) ([]byte, error) {
	return json.Marshal(run)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func EncodeGenerationSummaries(runID string, summaries []model.GenerationSummary) ([]byte, error) {
	return json.Marshal(model.GenerationSummaries{
		VersionedRecord: CurrentVersion(),
		RunID:           runID,
		Summaries:       summaries,
	})
}

func DecodeGenerationSummaries(data []byte) ([]model.GenerationSummary, error) {
	var envelope model.GenerationSummaries
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	if err := checkVersion(envelope.VersionedRecord); err != nil {
		return nil, err
	}
	return envelope.Summaries, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
