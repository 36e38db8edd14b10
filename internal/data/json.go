package data

import (
	"fmt"
	"os"
	"path/filepath"

	"brasero-forecast/internal/config"

	"github.com/goccy/go-json"
)

// LoadAssumptionsJSON reads an assumption set saved as JSON and decodes it
// onto base. Keys missing from the file keep the base value.
func LoadAssumptionsJSON(path string, base config.AssumptionsConfig) (config.AssumptionsConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return config.AssumptionsConfig{}, fmt.Errorf("failed to read assumptions file: %w", err)
	}

	a, err := config.OverlayAssumptionsJSON(base, raw)
	if err != nil {
		return config.AssumptionsConfig{}, fmt.Errorf("failed to parse assumptions file: %w", err)
	}
	return a, nil
}

// SaveAssumptionsJSON writes an assumption set as indented JSON.
func SaveAssumptionsJSON(a config.AssumptionsConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}

	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("failed to write assumptions file: %w", err)
	}
	return nil
}
