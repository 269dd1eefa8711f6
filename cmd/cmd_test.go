package cmd

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/report"
	"github.com/reloquent/bqddl/internal/state"
)

const schemaJSON = `[
  {"name": "id", "type": "INTEGER", "mode": "REQUIRED"},
  {"name": "tags", "type": "STRING", "mode": "REPEATED"},
  {"name": "meta", "type": "RECORD", "fields": [{"name": "source", "type": "STRING"}]}
]`

func run(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"abc":      "***",
		"abcdefgh": "ab****gh",
	}
	for in, want := range tests {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPromptConfig(t *testing.T) {
	input := "my-project\n\nddl\n\ntrue\n\n"
	cfg, err := promptConfig(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("promptConfig: %v", err)
	}
	if cfg.ProjectID != "my-project" || cfg.Output.Directory != "ddl" || cfg.Output.Terminator != ";" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !cfg.Output.Split || cfg.Output.Strict {
		t.Errorf("split=%t strict=%t", cfg.Output.Split, cfg.Output.Strict)
	}
}

func TestPromptConfigInvalidBool(t *testing.T) {
	input := "\n\n\n\nmaybe\n"
	if _, err := promptConfig(bufio.NewReader(strings.NewReader(input))); err == nil {
		t.Error("expected error for invalid boolean answer")
	}
}

func TestImportAndGenerate(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := t.TempDir()

	schemaPath := filepath.Join(dir, "orders.json")
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	modelPath := filepath.Join(dir, "model.yaml")

	if err := run(t, "import", "--bq-schema", schemaPath, "--model", modelPath, "--dataset", "sales", "--table", "orders"); err != nil {
		t.Fatalf("import: %v", err)
	}
	m, err := model.LoadYAML(modelPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Containers) != 1 || len(m.Containers[0].Entities) != 1 || len(m.Containers[0].Entities[0].Properties) != 3 {
		t.Fatalf("unexpected model: %+v", m)
	}

	out := filepath.Join(dir, "out")
	reportPath := filepath.Join(dir, "report.json")
	if err := run(t, "generate", "--model", modelPath, "--output", out, "--split=false", "--stdout=false", "--report", reportPath); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "schema.sql"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"CREATE SCHEMA sales;", "CREATE TABLE sales.orders (", "id INT64 NOT NULL", "meta STRUCT<"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("script missing %q:\n%s", want, data)
		}
	}

	rep, err := report.ReadJSON(reportPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	if rep.Tables != 1 || len(rep.Statements) != 2 || rep.Statements[1].Status != report.StatusAdded {
		t.Errorf("unexpected report: %+v", rep)
	}

	st, err := state.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if r, ok := st.Runs[state.ModelKey(modelPath)]; !ok || len(r.Fingerprints) != 2 {
		t.Errorf("state not recorded: %+v", st.Runs)
	}
}

func TestImportRequiresOneSource(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	modelPath := filepath.Join(t.TempDir(), "model.yaml")
	if err := run(t, "import", "--model", modelPath, "--bq-schema", "", "--bq-table", ""); err == nil {
		t.Error("expected error without a schema source")
	}
}

func TestValidateReportsProblems(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	modelPath := filepath.Join(t.TempDir(), "model.yaml")
	m := &model.Model{Containers: []model.Container{{
		Name: "sales",
		Entities: []model.Entity{{
			CollectionName: "orders",
			Properties:     []model.Property{{Name: "payload", Type: "struct"}},
		}},
	}}}
	if err := m.WriteYAML(modelPath); err != nil {
		t.Fatal(err)
	}

	err := run(t, "validate", "--model", modelPath, "--dry-run=false")
	if err == nil || !strings.Contains(err.Error(), "1 validation problem") {
		t.Errorf("expected one validation problem, got %v", err)
	}
}
