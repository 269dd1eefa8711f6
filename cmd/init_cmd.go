package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file interactively",
	Long:  `Walk through prompts to create a bqddl configuration file at ~/.bqddl/bqddl.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := promptConfig(bufio.NewReader(os.Stdin))
		if err != nil {
			return err
		}

		cfgPath := config.ExpandHome(config.DefaultPath)
		if cfgFile != "" {
			cfgPath = cfgFile
		}

		if err := cfg.Save(cfgPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Printf("Config written to %s\n", cfgPath)
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  bqddl validate --model model.yaml   check a model")
		fmt.Println("  bqddl generate --model model.yaml   write the DDL script")
		return nil
	},
}

func promptConfig(reader *bufio.Reader) (*config.Config, error) {
	fmt.Println("bqddl Configuration Setup")
	fmt.Println("=========================")
	fmt.Println()

	fmt.Println("Project")
	fmt.Println("-------")
	project := prompt(reader, "Default project ID (or ${ENV:VAR})", "")
	kms := prompt(reader, "Default KMS key name (leave empty for none)", "")
	fmt.Println()

	fmt.Println("Output")
	fmt.Println("------")
	dir := prompt(reader, "Output directory", "output")
	term := prompt(reader, "Statement terminator", ";")
	split, err := strconv.ParseBool(prompt(reader, "One file per statement", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid answer for split: %w", err)
	}
	strict, err := strconv.ParseBool(prompt(reader, "Fail on validation problems", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid answer for strict: %w", err)
	}
	fmt.Println()

	cfg := &config.Config{
		Version:   config.CurrentVersion,
		ProjectID: project,
		Output: config.OutputConfig{
			Directory:  dir,
			Terminator: term,
			Split:      split,
			Strict:     strict,
		},
		Defaults: config.DefaultsConfig{KMSKeyName: kms},
	}
	return cfg, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	input, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return defaultVal
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}
