package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/config"
	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/preview"
)

var (
	typeMappingModel string
	typeMappingFile  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View, validate, and manage bqddl configuration and type mappings.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current config (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println("Current configuration:")
		fmt.Println()
		fmt.Printf("  Project:          %s\n", cfg.ProjectID)
		fmt.Println()
		fmt.Printf("  Output:\n")
		fmt.Printf("    Directory:      %s\n", cfg.Output.Directory)
		fmt.Printf("    Terminator:     %q\n", cfg.Output.Terminator)
		fmt.Printf("    Split:          %t\n", cfg.Output.Split)
		fmt.Printf("    Strict:         %t\n", cfg.Output.Strict)
		fmt.Println()
		fmt.Printf("  Defaults:\n")
		fmt.Printf("    KMS Key:        %s\n", maskSecret(cfg.Defaults.KMSKeyName))
		for _, kv := range cfg.Defaults.SortedLabels() {
			fmt.Printf("    Label:          %s=%s\n", kv[0], kv[1])
		}
		fmt.Println()
		fmt.Printf("  Logging:\n")
		fmt.Printf("    Level:          %s\n", cfg.Logging.Level)
		fmt.Printf("    Directory:      %s\n", cfg.Logging.Directory)
		fmt.Printf("    Retention Days: %d\n", cfg.Logging.RetentionDays)
		fmt.Println()
		fmt.Printf("  Serve Port:       %d\n", cfg.Serve.Port)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("config invalid: %w", err)
		}

		var errors []string

		if cfg.Output.Terminator != ";" && strings.TrimSpace(cfg.Output.Terminator) == "" {
			errors = append(errors, "output.terminator must not be blank")
		}
		if cfg.Serve.Port < 0 || cfg.Serve.Port > 65535 {
			errors = append(errors, fmt.Sprintf("serve.port %d out of range", cfg.Serve.Port))
		}
		if cfg.Logging.RetentionDays < 0 {
			errors = append(errors, "logging.retention_days must not be negative")
		}
		for k := range cfg.Defaults.Labels {
			if k == "" {
				errors = append(errors, "defaults.labels has an empty key")
			}
		}

		if len(errors) > 0 {
			fmt.Println("Validation errors:")
			for _, e := range errors {
				fmt.Printf("  - %s\n", e)
			}
			return fmt.Errorf("%d validation error(s)", len(errors))
		}

		fmt.Println("Configuration is valid.")
		return nil
	},
}

var configTypeMappingCmd = &cobra.Command{
	Use:   "type-mapping",
	Short: "Interactive type mapping editor",
	Long: `Edit which BigQuery type each logical type resolves to. With --model only
the types used by that model are listed. The result is written to --file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var m *model.Model
		if typeMappingModel != "" {
			var err error
			if m, err = loadModel(typeMappingModel); err != nil {
				return err
			}
		}

		path := config.ExpandHome(typeMappingFile)
		tm, err := loadTypeMap("")
		if err != nil {
			return err
		}
		if existing, err := loadTypeMap(path); err == nil {
			tm = existing
		}

		saved, err := preview.RunTypeMapEditor(m, tm, path)
		if err != nil {
			return err
		}
		if saved {
			fmt.Printf("Type mapping written to %s\n", path)
		} else {
			fmt.Println("Type mapping unchanged.")
		}
		return nil
	},
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

func init() {
	configTypeMappingCmd.Flags().StringVar(&typeMappingModel, "model", "", "limit the editor to the types of this model")
	configTypeMappingCmd.Flags().StringVar(&typeMappingFile, "file", "~/.bqddl/typemap.yaml", "type mapping file to write")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configTypeMappingCmd)
	rootCmd.AddCommand(configCmd)
}
