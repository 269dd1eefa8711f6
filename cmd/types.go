package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/typemap"
)

var typesTypeMap string

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List BigQuery types and logical type mappings",
	RunE: func(cmd *cobra.Command, args []string) error {
		tm, err := loadTypeMap(typesTypeMap)
		if err != nil {
			return err
		}

		fmt.Println("BigQuery types:")
		for _, t := range typemap.AllTypes {
			line := "  " + string(t)
			if params := typemap.Params(t); len(params) > 0 {
				line += " (" + strings.Join(params, ", ") + ")"
			}
			if typemap.IsContainer(t) {
				line += " [container]"
			}
			fmt.Println(line)
		}

		fmt.Println()
		fmt.Println("Logical type mappings:")
		for _, logical := range tm.SortedTypes() {
			marker := " "
			if tm.IsOverridden(logical) {
				marker = "*"
			}
			fmt.Printf("  %s %-14s -> %s\n", marker, logical, tm.Resolve(logical))
		}
		return nil
	},
}

func init() {
	typesCmd.Flags().StringVar(&typesTypeMap, "typemap", "", "type mapping file (YAML)")
	rootCmd.AddCommand(typesCmd)
}
