package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MrKriegler/go-renewals/internal/core"
)

// loadRecords reads a JSON array of records, or of ledger policies when ledger is set.
func loadRecords(path string, ledger bool) ([]core.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if !ledger {
		var recs []core.Record
		if err := json.Unmarshal(raw, &recs); err != nil {
			return nil, fmt.Errorf("decode records %s: %w", path, err)
		}
		return recs, nil
	}

	var policies []core.LedgerPolicy
	if err := json.Unmarshal(raw, &policies); err != nil {
		return nil, fmt.Errorf("decode ledger policies %s: %w", path, err)
	}
	recs := make([]core.Record, 0, len(policies))
	for _, p := range policies {
		rec, err := p.ToRecord()
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func loadOverrides(path string) ([]core.ManualOverride, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	var out []core.ManualOverride
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode overrides %s: %w", path, err)
	}
	return out, nil
}

// loadWeights reads a YAML mapping of factor name to weight.
func loadWeights(path string) (core.PriorityWeights, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	w := core.PriorityWeights{}
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode weights %s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}
