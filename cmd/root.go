package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/config"
	"github.com/reloquent/bqddl/internal/logging"
	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/typemap"
)

var (
	cfgFile  string
	logLevel string
	version  = "dev"
	commit   = "none"
	date     = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "bqddl",
	Short: "BigQuery DDL generator",
	Long: `bqddl turns schema design models into BigQuery DDL: one CREATE SCHEMA
per dataset followed by a CREATE TABLE per table, with nested STRUCT and
ARRAY columns, partitioning, clustering and table options.`,
	SilenceUsage: true,
}

func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.bqddl/bqddl.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")
}

// loadConfig reads the config and applies the --log-level override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// setupLogger opens the daily log file and prunes old ones. When the log
// directory is unusable it falls back to stderr only.
func setupLogger(cfg *config.Config) (*slog.Logger, func()) {
	logger, closer, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Directory)
	if err != nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logging.ParseLevel(cfg.Logging.Level),
		}))
		logger.Warn("file logging disabled", "error", err)
		return logger, func() {}
	}

	if n, err := logging.Prune(cfg.Logging.Directory, cfg.Logging.RetentionDays, time.Now()); err != nil {
		logger.Warn("pruning old logs", "error", err)
	} else if n > 0 {
		logger.Debug("pruned old logs", "removed", n)
	}
	return logger, func() { closer.Close() }
}

func loadModel(path string) (*model.Model, error) {
	if path == "" {
		return nil, fmt.Errorf("--model is required")
	}
	m, err := model.LoadYAML(path)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	return m, nil
}

// loadTypeMap reads a type mapping file; an empty path yields the defaults.
func loadTypeMap(path string) (*typemap.TypeMap, error) {
	if path == "" {
		return typemap.New(), nil
	}
	tm, err := typemap.LoadYAML(path)
	if err != nil {
		return nil, fmt.Errorf("loading type mapping: %w", err)
	}
	return tm, nil
}
