package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	CurrentVersion = 1
	DefaultPath    = "~/.bqddl/bqddl.yaml"
	DefaultPort    = 8231
)

// Config is the top-level configuration.
type Config struct {
	Version   int            `yaml:"version"`
	ProjectID string         `yaml:"project_id,omitempty"` // used when the model has none
	Output    OutputConfig   `yaml:"output"`
	Defaults  DefaultsConfig `yaml:"defaults,omitempty"`
	Logging   LogConfig      `yaml:"logging,omitempty"`
	Serve     ServeConfig    `yaml:"serve,omitempty"`
}

// OutputConfig controls where and how generated scripts are written.
type OutputConfig struct {
	Directory  string `yaml:"directory,omitempty"`  // default output
	Terminator string `yaml:"terminator,omitempty"` // default ;
	Split      bool   `yaml:"split,omitempty"`      // one file per statement
	Strict     bool   `yaml:"strict,omitempty"`     // validation problems fail generation
}

// DefaultsConfig holds values applied to every generated schema.
type DefaultsConfig struct {
	KMSKeyName string            `yaml:"kms_key_name,omitempty"`
	Labels     map[string]string `yaml:"labels,omitempty"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level         string `yaml:"level,omitempty"`          // debug, info, warn, error
	Directory     string `yaml:"directory,omitempty"`      // default ~/.bqddl/logs/
	RetentionDays int    `yaml:"retention_days,omitempty"` // default 30
}

// ServeConfig defines the preview API settings.
type ServeConfig struct {
	Port int `yaml:"port,omitempty"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the config file from the given path. A missing file
// at the default path yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = ExpandHome(DefaultPath)
	}

	if err := LoadEnv(filepath.Join(filepath.Dir(path), ".env"), ".env"); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentVersion)
	}

	if err := cfg.resolveSecrets(); err != nil {
		return nil, fmt.Errorf("resolving secrets: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadEnv loads the .env files that exist among paths. Variables already set
// in the environment win.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Save writes the config to the given path.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ExpandHome(DefaultPath)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// SortedLabels returns the default labels ordered by key.
func (d DefaultsConfig) SortedLabels() [][2]string {
	keys := make([]string, 0, len(d.Labels))
	for k := range d.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	labels := make([][2]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, [2]string{k, d.Labels[k]})
	}
	return labels
}

func (c *Config) applyDefaults() {
	if c.Output.Directory == "" {
		c.Output.Directory = "output"
	}
	if c.Output.Terminator == "" {
		c.Output.Terminator = ";"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Directory == "" {
		c.Logging.Directory = ExpandHome("~/.bqddl/logs/")
	} else {
		c.Logging.Directory = ExpandHome(c.Logging.Directory)
	}
	if c.Logging.RetentionDays == 0 {
		c.Logging.RetentionDays = 30
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
}

var secretPattern = regexp.MustCompile(`\$\{(ENV|VAULT|AWS_SM):([^}]+)\}`)

func (c *Config) resolveSecrets() error {
	var err error
	c.ProjectID, err = ResolveValue(c.ProjectID)
	if err != nil {
		return fmt.Errorf("project id: %w", err)
	}
	c.Defaults.KMSKeyName, err = ResolveValue(c.Defaults.KMSKeyName)
	if err != nil {
		return fmt.Errorf("default kms key: %w", err)
	}
	for k, v := range c.Defaults.Labels {
		c.Defaults.Labels[k], err = ResolveValue(v)
		if err != nil {
			return fmt.Errorf("default label %s: %w", k, err)
		}
	}
	return nil
}

// ResolveValue resolves secret references in a string value.
func ResolveValue(val string) (string, error) {
	matches := secretPattern.FindStringSubmatch(val)
	if matches == nil {
		return val, nil
	}

	provider := matches[1]
	ref := matches[2]

	switch provider {
	case "ENV":
		v := os.Getenv(ref)
		if v == "" {
			return "", fmt.Errorf("environment variable %s not set", ref)
		}
		return v, nil
	case "VAULT":
		return resolveVault(ref)
	case "AWS_SM":
		return resolveAWSSecretsManager(ref)
	default:
		return "", fmt.Errorf("unknown secrets provider: %s", provider)
	}
}

// ExpandHome expands ~ to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
