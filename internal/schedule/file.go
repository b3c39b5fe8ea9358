package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// document is the on-disk shape of a schedule file.
type document struct {
	Schedule []Row `json:"schedule" yaml:"schedule"`
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".json":
		return formatJSON, nil
	}
	return 0, fmt.Errorf("unsupported schedule file %q (use .yaml, .yml or .json)", path)
}

// LoadFile reads schedule rows from a YAML or JSON file, chosen by
// extension.
func LoadFile(path string) ([]Row, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}

	var doc document
	switch f {
	case formatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse schedule %s: %w", path, err)
	}
	return doc.Schedule, nil
}

// SaveFile writes rows to a YAML or JSON file, chosen by extension.
func SaveFile(path string, rows []Row) error {
	f, err := formatFor(path)
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []Row{}
	}

	var data []byte
	switch f {
	case formatYAML:
		data, err = yaml.Marshal(document{Schedule: rows})
	default:
		data, err = json.MarshalIndent(document{Schedule: rows}, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode schedule: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schedule: %w", err)
	}
	return nil
}
