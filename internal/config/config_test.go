package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bqddl.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `version: 1
project_id: acme
output:
  directory: ddl
  split: true
defaults:
  labels:
    team: data
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ProjectID != "acme" {
		t.Errorf("expected project acme, got %s", cfg.ProjectID)
	}
	if cfg.Output.Directory != "ddl" || !cfg.Output.Split {
		t.Errorf("unexpected output config: %+v", cfg.Output)
	}
	if cfg.Output.Terminator != ";" {
		t.Errorf("expected default terminator ;, got %q", cfg.Output.Terminator)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Serve.Port != DefaultPort {
		t.Errorf("expected default port %d, got %d", DefaultPort, cfg.Serve.Port)
	}
	if cfg.Defaults.Labels["team"] != "data" {
		t.Errorf("expected default label team=data, got %v", cfg.Defaults.Labels)
	}
}

func TestLoadInvalidVersion(t *testing.T) {
	path := writeConfig(t, "version: 99\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid version")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadMissingDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Version != CurrentVersion || cfg.Output.Terminator != ";" {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadResolvesSecrets(t *testing.T) {
	t.Setenv("BQ_KMS", "projects/p/keyRings/r/cryptoKeys/k")
	t.Setenv("BQ_TEAM", "analytics")
	path := writeConfig(t, `version: 1
defaults:
  kms_key_name: "${ENV:BQ_KMS}"
  labels:
    team: "${ENV:BQ_TEAM}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.KMSKeyName != "projects/p/keyRings/r/cryptoKeys/k" {
		t.Errorf("KMSKeyName = %q", cfg.Defaults.KMSKeyName)
	}
	if cfg.Defaults.Labels["team"] != "analytics" {
		t.Errorf("team label = %q", cfg.Defaults.Labels["team"])
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BQDDL_TEST_PROJECT=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "bqddl.yaml")
	if err := os.WriteFile(path, []byte("version: 1\nproject_id: \"${ENV:BQDDL_TEST_PROJECT}\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BQDDL_TEST_PROJECT", "")
	os.Unsetenv("BQDDL_TEST_PROJECT")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ProjectID != "from-dotenv" {
		t.Errorf("ProjectID = %q, want from-dotenv", cfg.ProjectID)
	}
}

func TestResolveEnvSecret(t *testing.T) {
	t.Setenv("TEST_SECRET", "mysecret")
	val, err := ResolveValue("${ENV:TEST_SECRET}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "mysecret" {
		t.Errorf("expected mysecret, got %s", val)
	}
}

func TestResolveMissingEnvSecret(t *testing.T) {
	t.Setenv("TEST_SECRET_UNSET", "")
	if _, err := ResolveValue("${ENV:TEST_SECRET_UNSET}"); err == nil {
		t.Error("expected error for unset variable")
	}
}

func TestResolvePlainValue(t *testing.T) {
	val, err := ResolveValue("plaintext")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "plaintext" {
		t.Errorf("expected plaintext, got %s", val)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bqddl.yaml")
	cfg := Default()
	cfg.ProjectID = "acme"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ProjectID != "acme" {
		t.Errorf("ProjectID = %q", loaded.ProjectID)
	}
}

func TestSortedLabels(t *testing.T) {
	d := DefaultsConfig{Labels: map[string]string{"team": "data", "env": "prod"}}
	got := d.SortedLabels()
	if len(got) != 2 || got[0][0] != "env" || got[1][0] != "team" {
		t.Errorf("SortedLabels = %v", got)
	}
}
