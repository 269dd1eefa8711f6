package cmd

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/generate"
	"github.com/reloquent/bqddl/internal/warehouse"
)

var (
	validateModel   string
	validateTypeMap string
	validateDryRun  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a model for problems",
	Long: `Check every active dataset and table of a model for problems that would
produce invalid DDL: unknown types, empty structs, missing partition keys,
clustering on unknown columns and more.

With --dry-run each generated statement is also submitted to BigQuery as a
dry-run query, using the project of the model or the config and application
default credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, done := setupLogger(cfg)
		defer done()

		m, err := loadModel(validateModel)
		if err != nil {
			return err
		}
		tm, err := loadTypeMap(validateTypeMap)
		if err != nil {
			return err
		}

		cfg.Output.Strict = false
		result, err := (&generate.Generator{Config: cfg, Model: m, TypeMap: tm, Logger: logger}).Generate()
		if err != nil {
			return fmt.Errorf("generating DDL: %w", err)
		}

		if len(result.Problems) > 0 {
			printProblems(result.Problems)
			return fmt.Errorf("%d validation problem(s)", len(result.Problems))
		}
		fmt.Printf("Model is valid: %d statement(s).\n", len(result.Statements))

		if !validateDryRun {
			return nil
		}

		project := m.ModelData.ProjectID
		if project == "" {
			project = cfg.ProjectID
		}
		client, err := warehouse.New(cmd.Context(), project)
		if err != nil {
			return err
		}
		defer client.Close()

		var failures *multierror.Error
		for _, s := range result.Statements {
			kind, err := client.DryRun(cmd.Context(), s.SQL)
			if err != nil {
				fmt.Printf("  [FAIL] %s %s\n", s.Kind, s.Name)
				failures = multierror.Append(failures, fmt.Errorf("%s: %w", s.Key(), err))
				continue
			}
			logger.Debug("dry run passed", "statement", s.Key(), "type", kind)
			fmt.Printf("  [OK]   %s %s\n", s.Kind, s.Name)
		}
		if err := failures.ErrorOrNil(); err != nil {
			return fmt.Errorf("dry run failed: %w", err)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateModel, "model", "", "model file (YAML)")
	validateCmd.Flags().StringVar(&validateTypeMap, "typemap", "", "type mapping file (YAML)")
	validateCmd.Flags().BoolVar(&validateDryRun, "dry-run", false, "also dry-run each statement against BigQuery")
	validateCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(validateCmd)
}
