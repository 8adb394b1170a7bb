// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/lindex/pkg/types"
)

// WriteRecord writes the full ScoredResult as a YAML record next to the
// PDF report, for machine consumption.
func WriteRecord(path string, result types.ScoredResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing result record: %w", err)
	}
	return nil
}

// ReadRecord loads a YAML record written by WriteRecord.
func ReadRecord(path string) (types.ScoredResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ScoredResult{}, fmt.Errorf("reading result record: %w", err)
	}
	var result types.ScoredResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return types.ScoredResult{}, fmt.Errorf("parsing result record: %w", err)
	}
	return result, nil
}
