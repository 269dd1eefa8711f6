package model

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a model from a YAML file.
func LoadYAML(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	m := &Model{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}
	return m, nil
}

// WriteYAML writes the model to a YAML file at the given path.
func (m *Model) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling model: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Summary returns a human-readable summary of the model.
func (m *Model) Summary() string {
	var tables, columns, nested int
	for _, c := range m.Containers {
		tables += len(c.Entities)
		for _, e := range c.Entities {
			columns += len(e.Properties)
			for _, p := range e.Properties {
				nested += countNested(p)
			}
		}
	}

	return fmt.Sprintf(
		"Found %d datasets, %d tables, %d columns (%d nested fields)",
		len(m.Containers), tables, columns, nested,
	)
}

func countNested(p Property) int {
	n := 0
	for _, child := range p.Properties {
		n += 1 + countNested(child)
	}
	for _, item := range p.Items {
		n += countNested(item)
	}
	return n
}
