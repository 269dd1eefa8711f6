// Package report summarizes a generation run for humans and for CI.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reloquent/bqddl/internal/generate"
	"github.com/reloquent/bqddl/internal/state"
)

// Statement status relative to the previous run.
const (
	StatusAdded     = "added"
	StatusChanged   = "changed"
	StatusUnchanged = "unchanged"
)

// GenerationReport describes one generate run.
type GenerationReport struct {
	Version     string             `json:"version"`
	GeneratedAt time.Time          `json:"generated_at"`
	Model       string             `json:"model"`
	Datasets    int                `json:"datasets"`
	Tables      int                `json:"tables"`
	Files       []string           `json:"files,omitempty"`
	Statements  []StatementSummary `json:"statements"`
	Removed     []string           `json:"removed,omitempty"`
	Problems    []string           `json:"problems,omitempty"`
	Clean       bool               `json:"clean"`
}

// StatementSummary is one statement of the run.
type StatementSummary struct {
	Kind        generate.Kind `json:"kind"`
	Name        string        `json:"name"`
	Fingerprint string        `json:"fingerprint"`
	Status      string        `json:"status"`
}

// New builds the report of a run from its result, the changes against the
// previous run and the files written.
func New(result *generate.Result, changes state.Changes, files []string) *GenerationReport {
	status := make(map[string]string, len(changes.Added)+len(changes.Changed))
	for _, k := range changes.Added {
		status[k] = StatusAdded
	}
	for _, k := range changes.Changed {
		status[k] = StatusChanged
	}

	datasets, tables := result.Counts()
	r := &GenerationReport{
		Version:     "1",
		GeneratedAt: time.Now(),
		Model:       result.ModelName,
		Datasets:    datasets,
		Tables:      tables,
		Files:       files,
		Removed:     changes.Removed,
		Clean:       len(result.Problems) == 0,
	}
	for _, s := range result.Statements {
		st, ok := status[s.Key()]
		if !ok {
			st = StatusUnchanged
		}
		r.Statements = append(r.Statements, StatementSummary{
			Kind:        s.Kind,
			Name:        s.Name,
			Fingerprint: s.Fingerprint,
			Status:      st,
		})
	}
	for _, p := range result.Problems {
		r.Problems = append(r.Problems, p.Error())
	}
	return r
}

// Write stores the report as JSON when path ends in .json and as text
// otherwise.
func Write(report *GenerationReport, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return WriteJSON(report, path)
	}
	return WriteText(report, path)
}

// WriteJSON writes the report as JSON.
func WriteJSON(report *GenerationReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON reads a report from a JSON file.
func ReadJSON(path string) (*GenerationReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	r := &GenerationReport{}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return r, nil
}

// WriteText writes the report as human-readable text.
func WriteText(report *GenerationReport, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return os.WriteFile(path, []byte(FormatText(report)), 0o644)
}

// FormatText renders the report as human-readable text.
func FormatText(report *GenerationReport) string {
	var b strings.Builder

	b.WriteString("=== bqddl Generation Report ===\n")
	fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Format(time.RFC3339))
	if report.Model != "" {
		fmt.Fprintf(&b, "Model:     %s\n", report.Model)
	}
	fmt.Fprintf(&b, "Datasets:  %d\n", report.Datasets)
	fmt.Fprintf(&b, "Tables:    %d\n\n", report.Tables)

	if len(report.Files) > 0 {
		b.WriteString("Files:\n")
		for _, f := range report.Files {
			fmt.Fprintf(&b, "  %s\n", f)
		}
		b.WriteString("\n")
	}

	b.WriteString("Statements:\n")
	for _, s := range report.Statements {
		fmt.Fprintf(&b, "  [%-9s] %s %s (%s)\n", s.Status, s.Kind, s.Name, s.Fingerprint)
	}
	for _, k := range report.Removed {
		fmt.Fprintf(&b, "  [%-9s] %s\n", "removed", k)
	}
	b.WriteString("\n")

	if report.Clean {
		b.WriteString("Validation: CLEAN\n")
	} else {
		fmt.Fprintf(&b, "Validation: %d problem(s)\n", len(report.Problems))
		for i, p := range report.Problems {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, p)
		}
	}

	return b.String()
}
