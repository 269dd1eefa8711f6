package state

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingIsFresh(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "state.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Runs) != 0 {
		t.Errorf("expected no runs, got %d", len(s.Runs))
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	s := New()
	s.Record("model.yaml", "output/shop.sql", map[string]string{
		"database:sales":     "00000000000000aa",
		"table:sales.orders": "00000000000000bb",
	})
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	run, ok := loaded.Runs["model.yaml"]
	if !ok {
		t.Fatal("run not persisted")
	}
	if run.OutputPath != "output/shop.sql" || run.Fingerprints["table:sales.orders"] != "00000000000000bb" {
		t.Errorf("run = %+v", run)
	}
}

func TestDiff(t *testing.T) {
	s := New()
	s.Record("m", "", map[string]string{
		"database:sales":      "1",
		"table:sales.orders":  "2",
		"table:sales.refunds": "3",
	})

	c := s.Diff("m", map[string]string{
		"database:sales":     "1",
		"table:sales.orders": "22",
		"table:sales.items":  "4",
	})

	want := Changes{
		Added:   []string{"table:sales.items"},
		Changed: []string{"table:sales.orders"},
		Removed: []string{"table:sales.refunds"},
	}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("Diff = %+v, want %+v", c, want)
	}
	if c.String() != "1 added, 1 changed, 1 removed" {
		t.Errorf("String = %q", c.String())
	}
}

func TestDiffUnknownModel(t *testing.T) {
	c := New().Diff("new", map[string]string{"b": "1", "a": "2"})
	if !reflect.DeepEqual(c.Added, []string{"a", "b"}) || len(c.Changed) != 0 || len(c.Removed) != 0 {
		t.Errorf("Diff = %+v", c)
	}
}

func TestDiffUnchanged(t *testing.T) {
	s := New()
	fps := map[string]string{"database:sales": "1"}
	s.Record("m", "", fps)

	c := s.Diff("m", fps)
	if !c.Empty() {
		t.Errorf("expected no changes, got %+v", c)
	}
	if c.String() != "no changes since last run" {
		t.Errorf("String = %q", c.String())
	}
}

func TestRecordCopiesFingerprints(t *testing.T) {
	s := New()
	fps := map[string]string{"a": "1"}
	s.Record("m", "", fps)
	fps["a"] = "2"

	if s.Runs["m"].Fingerprints["a"] != "1" {
		t.Error("recorded fingerprints alias the caller's map")
	}
}
