package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/generate"
	"github.com/reloquent/bqddl/internal/lock"
	"github.com/reloquent/bqddl/internal/report"
	"github.com/reloquent/bqddl/internal/state"
)

var (
	generateModel   string
	generateOutput  string
	generateTypeMap string
	generateSplit   bool
	generateStrict  bool
	generateStdout  bool
	generateReport  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the DDL script for a model",
	Long: `Render every active dataset and table of a model as BigQuery DDL and
write the script to the output directory, or to stdout with --stdout.

Validation problems are reported as warnings unless --strict is set, in which
case they fail the command and nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("output") {
			cfg.Output.Directory = generateOutput
		}
		if cmd.Flags().Changed("split") {
			cfg.Output.Split = generateSplit
		}
		if cmd.Flags().Changed("strict") {
			cfg.Output.Strict = generateStrict
		}

		logger, done := setupLogger(cfg)
		defer done()

		m, err := loadModel(generateModel)
		if err != nil {
			return err
		}
		tm, err := loadTypeMap(generateTypeMap)
		if err != nil {
			return err
		}

		g := &generate.Generator{
			Config:  cfg,
			Model:   m,
			TypeMap: tm,
			Logger:  logger,
		}
		result, err := g.Generate()
		if err != nil {
			if result != nil {
				printProblems(result.Problems)
			}
			return fmt.Errorf("generating DDL: %w", err)
		}

		if generateStdout {
			fmt.Fprint(os.Stdout, result.Script(cfg.Output.Terminator))
			return nil
		}

		paths, err := result.WriteFiles(cmd.Context(), cfg.Output.Directory, cfg.Output.Split, cfg.Output.Terminator)
		if err != nil {
			return fmt.Errorf("writing DDL: %w", err)
		}

		dbs, tables := result.Counts()
		fmt.Printf("Generated %d schema(s) and %d table(s)\n", dbs, tables)
		for _, p := range paths {
			fmt.Printf("  %s\n", p)
		}
		if n := len(result.Problems); n > 0 {
			fmt.Printf("%d validation problem(s); run `bqddl validate --model %s` for details\n", n, generateModel)
		}

		changes, err := recordRun(generateModel, cfg.Output.Directory, result.Fingerprints())
		if err != nil {
			logger.Warn("recording run", "error", err)
		} else {
			fmt.Printf("Changes: %s\n", changes)
		}

		if generateReport != "" {
			if err := report.Write(report.New(result, changes, paths), generateReport); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Printf("Report written to %s\n", generateReport)
		}
		return nil
	},
}

// recordRun diffs the run against the previous one of the same model and
// stores it, holding the state lock for the read-modify-write.
func recordRun(modelPath, outputDir string, fps map[string]string) (state.Changes, error) {
	l, err := lock.Acquire("")
	if err != nil {
		return state.Changes{}, err
	}
	defer l.Release()

	st, err := state.Load("")
	if err != nil {
		return state.Changes{}, err
	}
	key := state.ModelKey(modelPath)
	changes := st.Diff(key, fps)
	st.Record(key, outputDir, fps)
	if err := st.Save(""); err != nil {
		return changes, err
	}
	return changes, nil
}

func printProblems(problems []error) {
	if len(problems) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "Validation problems:\n")
	for _, p := range problems {
		fmt.Fprintf(os.Stderr, "  - %s\n", p)
	}
}

func init() {
	generateCmd.Flags().StringVar(&generateModel, "model", "", "model file (YAML)")
	generateCmd.Flags().StringVar(&generateOutput, "output", "output", "output directory for generated scripts")
	generateCmd.Flags().StringVar(&generateTypeMap, "typemap", "", "type mapping file (YAML)")
	generateCmd.Flags().BoolVar(&generateSplit, "split", false, "write one file per statement")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "fail on validation problems")
	generateCmd.Flags().BoolVar(&generateStdout, "stdout", false, "print the script instead of writing files")
	generateCmd.Flags().StringVar(&generateReport, "report", "", "write a run report (.json for JSON, text otherwise)")
	generateCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(generateCmd)
}
