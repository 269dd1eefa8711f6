// Package generate turns a design model into an ordered DDL script: one
// CREATE SCHEMA per dataset followed by a CREATE TABLE per table.
package generate

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/zeebo/xxh3"

	"github.com/reloquent/bqddl/internal/config"
	"github.com/reloquent/bqddl/internal/ddl"
	"github.com/reloquent/bqddl/internal/hydrate"
	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/schema"
	"github.com/reloquent/bqddl/internal/typemap"
	"github.com/reloquent/bqddl/internal/validate"
)

// ErrNoModel is returned when the generator has nothing to render.
var ErrNoModel = errors.New("no model loaded")

// Kind tells a database statement from a table statement.
type Kind string

const (
	KindDatabase Kind = "database"
	KindTable    Kind = "table"
)

// Statement is one rendered DDL statement, without terminator.
type Statement struct {
	Kind        Kind   `json:"kind" yaml:"kind"`
	Name        string `json:"name" yaml:"name"` // dataset or dataset.table
	SQL         string `json:"sql" yaml:"sql"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// Key identifies the statement across runs.
func (s Statement) Key() string {
	return string(s.Kind) + ":" + s.Name
}

// Result contains the generated statements in model order.
type Result struct {
	ModelName  string
	Statements []Statement
	Problems   []error // validation findings; fatal only in strict mode
}

// Generator renders a model.
type Generator struct {
	Config  *config.Config
	Model   *model.Model
	TypeMap *typemap.TypeMap
	Logger  *slog.Logger
}

// Generate hydrates every active dataset and table of the model and renders
// its statement. Validation problems are collected; with strict output they
// fail generation.
func (g *Generator) Generate() (*Result, error) {
	if g.Model == nil {
		return nil, ErrNoModel
	}
	cfg := g.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := g.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	h := hydrate.New(g.TypeMap)
	md := g.Model.ModelData
	if md.ProjectID == "" {
		md.ProjectID = cfg.ProjectID
	}

	result := &Result{ModelName: md.Name}
	var problems *multierror.Error

	for _, c := range g.Model.Containers {
		if !c.Activated() {
			logger.Debug("skipping inactive dataset", "dataset", c.Name)
			continue
		}

		db := h.Database(c, md)
		ApplyDefaults(&db, cfg.Defaults)
		problems = multierror.Append(problems, validate.Database(db))
		result.add(KindDatabase, c.Name, ddl.CreateDatabase(db))

		for _, e := range c.Entities {
			if !e.Activated() {
				logger.Debug("skipping inactive table", "dataset", c.Name, "table", e.CollectionName)
				continue
			}
			tbl := h.Table(e, c, md)
			problems = multierror.Append(problems, validate.Table(tbl))
			result.add(KindTable, c.Name+"."+e.CollectionName, ddl.CreateTable(tbl))
		}
	}

	result.Problems = validate.Problems(problems.ErrorOrNil())

	logger.Info("generated DDL",
		"model", md.Name,
		"statements", len(result.Statements),
		"problems", len(result.Problems),
	)

	if len(result.Problems) > 0 {
		if cfg.Output.Strict {
			return result, fmt.Errorf("validation failed: %w", problems)
		}
		for _, p := range result.Problems {
			logger.Warn("validation problem", "problem", p.Error())
		}
	}
	return result, nil
}

func (r *Result) add(kind Kind, name, sql string) {
	r.Statements = append(r.Statements, Statement{
		Kind:        kind,
		Name:        name,
		SQL:         sql,
		Fingerprint: Fingerprint(sql),
	})
}

// ApplyDefaults fills the configured default KMS key and merges default
// labels into a dataset. Labels set on the dataset win.
func ApplyDefaults(db *schema.DatabaseConfig, d config.DefaultsConfig) {
	if db.EncryptionKey == "" {
		db.EncryptionKey = d.KMSKeyName
	}

	present := make(map[string]bool, len(db.Labels))
	for _, l := range db.Labels {
		present[l.Key] = true
	}
	for _, kv := range d.SortedLabels() {
		if !present[kv[0]] {
			db.Labels = append(db.Labels, schema.Label{Key: kv[0], Value: kv[1]})
		}
	}
}

// Fingerprint returns the xxh3 hash of a statement as 16 hex digits.
func Fingerprint(sql string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(sql))
}

// Fingerprints maps statement keys to fingerprints.
func (r *Result) Fingerprints() map[string]string {
	fps := make(map[string]string, len(r.Statements))
	for _, s := range r.Statements {
		fps[s.Key()] = s.Fingerprint
	}
	return fps
}

// Script joins all statements, each followed by term, separated by a blank
// line.
func (r *Result) Script(term string) string {
	parts := make([]string, 0, len(r.Statements))
	for _, s := range r.Statements {
		parts = append(parts, s.SQL+term)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// Counts returns the number of database and table statements.
func (r *Result) Counts() (databases, tables int) {
	for _, s := range r.Statements {
		switch s.Kind {
		case KindDatabase:
			databases++
		case KindTable:
			tables++
		}
	}
	return databases, tables
}
