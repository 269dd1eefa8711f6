package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/reloquent/bqddl/internal/hydrate"
	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/warehouse"
)

var (
	importSchema  string
	importTable   string
	importModel   string
	importDataset string
	importName    string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a BigQuery table schema into a model",
	Long: `Add a table to a model from an existing BigQuery schema, either a JSON
schema file as written by 'bq show --schema' (--bq-schema) or a live table
read with application default credentials (--bq-table). The model file is
created when it does not exist; a table of the same name is replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (importSchema == "") == (importTable == "") {
			return errors.New("exactly one of --bq-schema or --bq-table is required")
		}

		m, err := model.LoadYAML(importModel)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading model: %w", err)
			}
			m = &model.Model{}
		}

		var props []model.Property
		dataset, table := importDataset, importName

		if importSchema != "" {
			data, err := os.ReadFile(importSchema)
			if err != nil {
				return fmt.Errorf("reading schema file: %w", err)
			}
			props, err = hydrate.ParseBigQueryJSON(data)
			if err != nil {
				return err
			}
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			project := m.ModelData.ProjectID
			if project == "" {
				project = cfg.ProjectID
			}
			ref, err := warehouse.ParseTableRef(importTable, project)
			if err != nil {
				return err
			}
			client, err := warehouse.New(cmd.Context(), ref.ProjectID)
			if err != nil {
				return err
			}
			defer client.Close()

			s, err := client.TableSchema(cmd.Context(), ref)
			if err != nil {
				return err
			}
			props = hydrate.PropertiesFromBigQuery(s)
			if dataset == "" {
				dataset = ref.DatasetID
			}
			if table == "" {
				table = ref.TableID
			}
		}

		if dataset == "" || table == "" {
			return errors.New("--dataset and --table are required")
		}

		c, ok := m.Container(dataset)
		if !ok {
			m.Containers = append(m.Containers, model.Container{Name: dataset})
			c = &m.Containers[len(m.Containers)-1]
		}
		c.PutEntity(model.Entity{CollectionName: table, Properties: props})

		if err := m.WriteYAML(importModel); err != nil {
			return fmt.Errorf("writing model: %w", err)
		}
		fmt.Printf("Imported %s.%s (%d column(s)) into %s\n", dataset, table, len(props), importModel)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importSchema, "bq-schema", "", "BigQuery JSON schema file")
	importCmd.Flags().StringVar(&importTable, "bq-table", "", "existing table as [project.]dataset.table")
	importCmd.Flags().StringVar(&importModel, "model", "", "model file to update (YAML)")
	importCmd.Flags().StringVar(&importDataset, "dataset", "", "dataset to add the table to")
	importCmd.Flags().StringVar(&importName, "table", "", "table name")
	importCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(importCmd)
}
