package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/generate"
	"github.com/reloquent/bqddl/internal/state"
)

var (
	statusModel   string
	statusTypeMap string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recorded runs or pending changes of a model",
	Long: `Without --model, list every model generated so far with its last run.
With --model, render the model in memory and list the statements that
changed since its last recorded run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := state.Load("")
		if err != nil {
			return fmt.Errorf("loading state: %w", err)
		}

		if statusModel == "" {
			if len(st.Runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}
			keys := make([]string, 0, len(st.Runs))
			for k := range st.Runs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				run := st.Runs[k]
				fmt.Printf("%s\n", k)
				fmt.Printf("  Generated:  %s\n", run.GeneratedAt.Format("2006-01-02 15:04:05"))
				fmt.Printf("  Output:     %s\n", run.OutputPath)
				fmt.Printf("  Statements: %d\n", len(run.Fingerprints))
			}
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		m, err := loadModel(statusModel)
		if err != nil {
			return err
		}
		tm, err := loadTypeMap(statusTypeMap)
		if err != nil {
			return err
		}

		cfg.Output.Strict = false
		result, err := (&generate.Generator{Config: cfg, Model: m, TypeMap: tm}).Generate()
		if err != nil {
			return fmt.Errorf("generating DDL: %w", err)
		}

		changes := st.Diff(state.ModelKey(statusModel), result.Fingerprints())
		fmt.Printf("Changes: %s\n", changes)
		for _, k := range changes.Added {
			fmt.Printf("  [+] %s\n", k)
		}
		for _, k := range changes.Changed {
			fmt.Printf("  [~] %s\n", k)
		}
		for _, k := range changes.Removed {
			fmt.Printf("  [-] %s\n", k)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusModel, "model", "", "model file (YAML)")
	statusCmd.Flags().StringVar(&statusTypeMap, "typemap", "", "type mapping file (YAML)")
	rootCmd.AddCommand(statusCmd)
}
