package ddl

import (
	"strings"

	"github.com/reloquent/bqddl/internal/schema"
)

// TableStatement holds the rendered parts of a CREATE TABLE statement.
// Empty clauses are left out.
type TableStatement struct {
	Name       string
	Columns    []string
	OrReplace  bool
	Temporary  bool
	External   bool
	IfNotExist bool
	Partition  string
	Clustering string
	Options    string
}

// DatabaseStatement holds the rendered parts of a CREATE SCHEMA statement.
type DatabaseStatement struct {
	Name       string
	IfNotExist bool
	Options    string
}

// CreateTable renders the complete CREATE TABLE statement for cfg.
func CreateTable(cfg schema.TableConfig) string {
	columns := make([]string, 0, len(cfg.Columns))
	for _, f := range cfg.Columns {
		columns = append(columns, RenderColumn(f))
	}

	return AssembleTable(TableStatement{
		Name:       FullName(cfg.ProjectID, cfg.DatabaseName, cfg.Name),
		Columns:    columns,
		OrReplace:  cfg.OrReplace,
		Temporary:  cfg.Temporary,
		External:   cfg.External,
		IfNotExist: cfg.IfNotExist,
		Partition:  TablePartitioning(cfg),
		Clustering: TableClustering(cfg),
		Options:    TableOptions(cfg),
	})
}

// CreateDatabase renders the CREATE SCHEMA statement for cfg.
func CreateDatabase(cfg schema.DatabaseConfig) string {
	return AssembleDatabase(DatabaseStatement{
		Name:       FullName(cfg.ProjectID, cfg.Name),
		IfNotExist: cfg.IfNotExist,
		Options:    DatabaseOptions(cfg),
	})
}

// AssembleTable fills the CREATE TABLE skeleton:
//
//	CREATE [OR REPLACE ][TEMPORARY ][EXTERNAL ]TABLE [IF NOT EXISTS ]<name> (
//	  <columns>
//	)[
//	PARTITION BY ...][
//	CLUSTER BY ...][
//	OPTIONS (...)]
//
// Flags are independent; conflicting combinations are rendered as given.
func AssembleTable(st TableStatement) string {
	var b strings.Builder

	b.WriteString("CREATE ")
	if st.OrReplace {
		b.WriteString("OR REPLACE ")
	}
	if st.Temporary {
		b.WriteString("TEMPORARY ")
	}
	if st.External {
		b.WriteString("EXTERNAL ")
	}
	b.WriteString("TABLE ")
	if st.IfNotExist {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(st.Name)
	b.WriteString(" (\n")
	b.WriteString(indent(strings.Join(st.Columns, ",\n")))
	b.WriteString("\n)")

	for _, clause := range []string{st.Partition, st.Clustering, st.Options} {
		if clause != "" {
			b.WriteString("\n")
			b.WriteString(clause)
		}
	}

	return b.String()
}

// AssembleDatabase fills `CREATE SCHEMA[ IF NOT EXISTS] <name>[\nOPTIONS(...)]`.
func AssembleDatabase(st DatabaseStatement) string {
	var b strings.Builder

	b.WriteString("CREATE SCHEMA")
	if st.IfNotExist {
		b.WriteString(" IF NOT EXISTS")
	}
	b.WriteString(" ")
	b.WriteString(st.Name)
	if st.Options != "" {
		b.WriteString("\n")
		b.WriteString(st.Options)
	}

	return b.String()
}
