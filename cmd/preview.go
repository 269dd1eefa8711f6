package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/generate"
	"github.com/reloquent/bqddl/internal/preview"
)

var (
	previewModel   string
	previewTypeMap string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Browse the generated DDL in the terminal",
	Long:  `Render a model and page through its statements: tab and shift+tab switch statements, arrows scroll, q quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		m, err := loadModel(previewModel)
		if err != nil {
			return err
		}
		tm, err := loadTypeMap(previewTypeMap)
		if err != nil {
			return err
		}

		cfg.Output.Strict = false
		result, err := (&generate.Generator{Config: cfg, Model: m, TypeMap: tm}).Generate()
		if err != nil {
			return fmt.Errorf("generating DDL: %w", err)
		}
		return preview.Run(result, cfg.Output.Terminator)
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewModel, "model", "", "model file (YAML)")
	previewCmd.Flags().StringVar(&previewTypeMap, "typemap", "", "type mapping file (YAML)")
	previewCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(previewCmd)
}
