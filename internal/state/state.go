package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reloquent/bqddl/internal/config"
)

const DefaultPath = "~/.bqddl/state.yaml"

// State records the fingerprints of the statements written by the last
// generation run of each model.
type State struct {
	LastUpdated time.Time           `yaml:"last_updated"`
	Runs        map[string]RunState `yaml:"runs,omitempty"`
}

// RunState tracks one model's last run.
type RunState struct {
	GeneratedAt  time.Time         `yaml:"generated_at"`
	OutputPath   string            `yaml:"output_path,omitempty"`
	Fingerprints map[string]string `yaml:"fingerprints"` // statement key -> fingerprint
}

// Changes lists statement keys that differ from the last run.
type Changes struct {
	Added   []string
	Changed []string
	Removed []string
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Changed) == 0 && len(c.Removed) == 0
}

func (c Changes) String() string {
	if c.Empty() {
		return "no changes since last run"
	}
	var parts []string
	if n := len(c.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("%d added", n))
	}
	if n := len(c.Changed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", n))
	}
	if n := len(c.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	return strings.Join(parts, ", ")
}

// Load reads the state from disk. A missing file is a fresh state.
func Load(path string) (*State, error) {
	if path == "" {
		path = config.ExpandHome(DefaultPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	s := &State{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing state: %w", err)
	}
	if s.Runs == nil {
		s.Runs = make(map[string]RunState)
	}

	return s, nil
}

// Save writes the state to disk.
func (s *State) Save(path string) error {
	if path == "" {
		path = config.ExpandHome(DefaultPath)
	}

	s.LastUpdated = time.Now()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// New creates an empty state.
func New() *State {
	return &State{
		LastUpdated: time.Now(),
		Runs:        make(map[string]RunState),
	}
}

// Diff compares fingerprints against the model's last recorded run. Every
// statement of a model never seen before counts as added.
func (s *State) Diff(modelKey string, fingerprints map[string]string) Changes {
	prev := s.Runs[modelKey].Fingerprints

	var c Changes
	for key, fp := range fingerprints {
		old, ok := prev[key]
		switch {
		case !ok:
			c.Added = append(c.Added, key)
		case old != fp:
			c.Changed = append(c.Changed, key)
		}
	}
	for key := range prev {
		if _, ok := fingerprints[key]; !ok {
			c.Removed = append(c.Removed, key)
		}
	}

	sort.Strings(c.Added)
	sort.Strings(c.Changed)
	sort.Strings(c.Removed)
	return c
}

// Record stores the fingerprints of a run.
func (s *State) Record(modelKey, outputPath string, fingerprints map[string]string) {
	fps := make(map[string]string, len(fingerprints))
	for k, v := range fingerprints {
		fps[k] = v
	}
	s.Runs[modelKey] = RunState{
		GeneratedAt:  time.Now(),
		OutputPath:   outputPath,
		Fingerprints: fps,
	}
}

// ModelKey identifies a model file across runs by its absolute path.
func ModelKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
