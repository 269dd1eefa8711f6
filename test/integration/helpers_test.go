//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/warehouse"
)

func bqProject(t *testing.T) string {
	t.Helper()
	return os.Getenv("BQDDL_TEST_PROJECT")
}

func bqDataset(t *testing.T) string {
	t.Helper()
	return envOrDefault("BQDDL_TEST_DATASET", "bqddl_test")
}

func skipIfNoBigQuery(t *testing.T) {
	t.Helper()
	if os.Getenv("BQDDL_TEST_PROJECT") == "" {
		t.Skip("skipping: BQDDL_TEST_PROJECT not set")
	}
}

func warehouseClient(t *testing.T) *warehouse.Client {
	t.Helper()
	skipIfNoBigQuery(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	c, err := warehouse.New(ctx, bqProject(t))
	if err != nil {
		t.Fatalf("connecting to BigQuery: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// richModel covers nested structs, repeated fields, partitioning,
// clustering and options.
func richModel(project, dataset string) *model.Model {
	return &model.Model{
		ModelData: model.ModelData{Name: "integration", ProjectID: project},
		Containers: []model.Container{{
			Name:        dataset,
			Description: "bqddl integration \"fixtures\"",
			IfNotExist:  true,
			Labels:      []model.LabelRecord{{LabelKey: "owner", LabelValue: "bqddl"}},
			Entities: []model.Entity{{
				CollectionName:       "orders",
				Description:          "orders with\nline items",
				IfNotExist:           true,
				Partitioning:         "By time-unit column",
				PartitioningType:     "By day",
				TimeUnitPartitionKey: []model.KeyRef{{Name: "created"}},
				ClusteringKey:        []model.KeyRef{{Name: "customer"}},
				Properties: []model.Property{
					{Name: "id", Type: "integer", DataTypeMode: "Required"},
					{Name: "created", Type: "timestamp"},
					{Name: "customer", Type: "string", Length: 64},
					{Name: "total", Type: "numeric", Precision: 12, Scale: 2},
					{Name: "tags", Type: "string", DataTypeMode: "Repeated", Description: "free-form tags"},
					{
						Name: "items", Type: "array",
						Items: []model.Property{{
							Type: "struct",
							Properties: []model.Property{
								{Name: "sku", Type: "string", DataTypeMode: "Required"},
								{Name: "qty", Type: "integer"},
							},
						}},
					},
					{
						Name: "shipping", Type: "struct", Description: "delivery address",
						Properties: []model.Property{
							{Name: "city", Type: "string"},
							{Name: "geo", Type: "geography"},
						},
					},
				},
			}},
		}},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
