package ddl

import (
	"testing"

	"github.com/reloquent/bqddl/internal/schema"
)

func TestCreateTableMinimal(t *testing.T) {
	cfg := schema.TableConfig{
		Name: "t1",
		Columns: []schema.Field{
			schema.NewScalar("INT64", schema.Params{}).With(schema.ModeRequired).Named("id"),
		},
	}

	want := "CREATE TABLE t1 (\n  id INT64 NOT NULL\n)"
	if got := CreateTable(cfg); got != want {
		t.Errorf("CreateTable = %q, want %q", got, want)
	}
}

func TestCreateTableFull(t *testing.T) {
	cfg := schema.TableConfig{
		Name:         "orders",
		ProjectID:    "acme-prod",
		DatabaseName: "sales",
		OrReplace:    true,
		Columns: []schema.Field{
			schema.NewScalar("int64", schema.Params{}).With(schema.ModeRequired).Named("id"),
			schema.NewScalar("numeric", schema.Params{Precision: 10, Scale: 2}).Named("total"),
			schema.NewScalar("string", schema.Params{}).With(schema.ModeRepeated).Named("tags"),
			schema.NewStruct(
				schema.NewScalar("string", schema.Params{}).Named("city"),
			).Described("shipping address").Named("address"),
			schema.NewScalar("timestamp", schema.Params{}).Named("created_at"),
		},
		Partitioning:         schema.PartitionTimeUnit,
		TimeUnitPartitionKey: []string{"created_at"},
		ClusteringKey:        []string{"id"},
		Description:          "Customer orders",
	}

	want := "CREATE OR REPLACE TABLE `acme-prod.sales.orders` (\n" +
		"  id INT64 NOT NULL,\n" +
		"  total NUMERIC(10, 2),\n" +
		"  tags ARRAY<\n" +
		"    STRING\n" +
		"  >,\n" +
		"  address STRUCT<\n" +
		"    city STRING\n" +
		"  > OPTIONS( description=\"shipping address\" ),\n" +
		"  created_at TIMESTAMP\n" +
		")\n" +
		"PARTITION BY DATE(created_at)\n" +
		"CLUSTER BY id\n" +
		"OPTIONS (\n" +
		"  description=\"Customer orders\"\n" +
		")"
	if got := CreateTable(cfg); got != want {
		t.Errorf("CreateTable =\n%s\nwant\n%s", got, want)
	}
}

func TestAssembleTableFlags(t *testing.T) {
	tests := []struct {
		name string
		st   TableStatement
		want string
	}{
		{
			name: "temporary",
			st:   TableStatement{Name: "t", Columns: []string{"a INT64"}, Temporary: true},
			want: "CREATE TEMPORARY TABLE t (\n  a INT64\n)",
		},
		{
			name: "external if not exists",
			st:   TableStatement{Name: "t", Columns: []string{"a INT64"}, External: true, IfNotExist: true},
			want: "CREATE EXTERNAL TABLE IF NOT EXISTS t (\n  a INT64\n)",
		},
		{
			name: "all flags together",
			st: TableStatement{
				Name: "t", Columns: []string{"a INT64"},
				OrReplace: true, Temporary: true, External: true, IfNotExist: true,
			},
			want: "CREATE OR REPLACE TEMPORARY EXTERNAL TABLE IF NOT EXISTS t (\n  a INT64\n)",
		},
		{
			name: "clauses in fixed order",
			st: TableStatement{
				Name: "t", Columns: []string{"a INT64", "b STRING"},
				Options:    "OPTIONS (\n  description=\"x\"\n)",
				Clustering: "CLUSTER BY b",
				Partition:  "PARTITION BY DATE(a)",
			},
			want: "CREATE TABLE t (\n  a INT64,\n  b STRING\n)\nPARTITION BY DATE(a)\nCLUSTER BY b\nOPTIONS (\n  description=\"x\"\n)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssembleTable(tt.st); got != tt.want {
				t.Errorf("AssembleTable =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestCreateDatabase(t *testing.T) {
	tests := []struct {
		name string
		cfg  schema.DatabaseConfig
		want string
	}{
		{
			name: "bare",
			cfg:  schema.DatabaseConfig{Name: "sales"},
			want: "CREATE SCHEMA sales",
		},
		{
			name: "if not exists with project",
			cfg:  schema.DatabaseConfig{Name: "sales", ProjectID: "acme", IfNotExist: true},
			want: "CREATE SCHEMA IF NOT EXISTS `acme.sales`",
		},
		{
			name: "with options",
			cfg:  schema.DatabaseConfig{Name: "sales", Description: "Sales"},
			want: "CREATE SCHEMA sales\nOPTIONS(\n  description=\"Sales\"\n)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CreateDatabase(tt.cfg); got != tt.want {
				t.Errorf("CreateDatabase = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		project string
		names   []string
		want    string
	}{
		{"", []string{"", "t1"}, "t1"},
		{"", []string{"sales", "orders"}, "sales.orders"},
		{"acme-prod", []string{"sales", "orders"}, "`acme-prod.sales.orders`"},
		{"acme", []string{"sales"}, "`acme.sales`"},
		{" ", []string{" sales ", "orders"}, "sales.orders"},
	}

	for _, tt := range tests {
		if got := FullName(tt.project, tt.names...); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.project, tt.names, got, tt.want)
		}
	}
}
