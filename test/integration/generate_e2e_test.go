//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reloquent/bqddl/internal/config"
	"github.com/reloquent/bqddl/internal/generate"
	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/state"
)

func TestGenerateFromModelFile(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.yaml")
	if err := richModel("acme", "sales").WriteYAML(modelPath); err != nil {
		t.Fatal(err)
	}

	m, err := model.LoadYAML(modelPath)
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Output.Strict = true
	cfg.Defaults.Labels = map[string]string{"env": "test"}

	result, err := (&generate.Generator{Config: cfg, Model: m}).Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	paths, err := result.WriteFiles(context.Background(), filepath.Join(dir, "out"), true, cfg.Output.Terminator)
	if err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 files, got %v", paths)
	}

	schemaSQL, _ := os.ReadFile(paths[0])
	for _, want := range []string{
		"CREATE SCHEMA IF NOT EXISTS `acme.sales`",
		`("owner", "bqddl")`,
		`("env", "test")`,
		`description="bqddl integration \"fixtures\""`,
	} {
		if !strings.Contains(string(schemaSQL), want) {
			t.Errorf("schema file missing %q:\n%s", want, schemaSQL)
		}
	}

	tableSQL, _ := os.ReadFile(paths[1])
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS `acme.sales.orders`",
		"id INT64 NOT NULL",
		"customer STRING(64)",
		"total NUMERIC(12, 2)",
		"PARTITION BY DATE(created)",
		"CLUSTER BY customer",
		`description="orders with\nline items"`,
	} {
		if !strings.Contains(string(tableSQL), want) {
			t.Errorf("table file missing %q:\n%s", want, tableSQL)
		}
	}

	st := state.New()
	key := state.ModelKey(modelPath)
	if c := st.Diff(key, result.Fingerprints()); len(c.Added) != 2 {
		t.Errorf("first run changes = %s", c)
	}
	st.Record(key, dir, result.Fingerprints())

	m.Containers[0].Entities[0].Description = "changed"
	again, err := (&generate.Generator{Config: cfg, Model: m}).Generate()
	if err != nil {
		t.Fatal(err)
	}
	c := st.Diff(key, again.Fingerprints())
	if len(c.Changed) != 1 || c.Changed[0] != "table:sales.orders" {
		t.Errorf("second run changes = %+v", c)
	}
}
