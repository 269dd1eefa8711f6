// Package ddl renders schema descriptors and table/schema configuration into
// BigQuery DDL text.
//
// Rendering is best-effort and never fails: malformed input (a struct with
// no fields, a partitioned table without a key, an unknown type name)
// produces text that looks like DDL but may be rejected by the warehouse.
// Callers that want diagnostics up front run the validate package first.
//
// Identifiers are emitted as given and are not quoted. Statements carry no
// trailing terminator.
package ddl

import (
	"strconv"
	"strings"

	"github.com/reloquent/bqddl/internal/schema"
)

// RenderType renders the type declaration of d: an uppercased scalar name
// with its parameters, or a nested ARRAY<...> / STRUCT<...> block. The
// repeated shorthand is expanded to a one-item array.
func RenderType(d schema.Descriptor) string {
	if d.Repeated() {
		d = d.Unrepeated()
	}

	switch t := d.Type.(type) {
	case schema.Array:
		items := make([]string, 0, len(t.Items))
		for _, item := range t.Items {
			items = append(items, Render(item, true))
		}
		return "ARRAY<\n" + indent(strings.Join(items, ",\n")) + "\n>"

	case schema.Struct:
		fields := make([]string, 0, len(t.Fields))
		for _, f := range t.Fields {
			fields = append(fields, RenderColumn(f))
		}
		return "STRUCT<\n" + indent(strings.Join(fields, ",\n")) + "\n>"

	case schema.Scalar:
		return strings.ToUpper(t.Name) + renderParams(t.Params)
	}

	return ""
}

// Render renders a nameless descriptor with its options and nullability.
// Array items never carry options or NOT NULL; an item's description is
// dropped, including the item synthesized for a repeated field.
func Render(d schema.Descriptor, arrayItem bool) string {
	return BuildColumn(Column(schema.Field{Descriptor: d}, arrayItem))
}

// RenderColumn renders a top-level column or struct member as one
// definition, e.g. `id INT64 NOT NULL`.
func RenderColumn(f schema.Field) string {
	return BuildColumn(Column(f, false))
}

// Column splits a field into the clauses of its definition.
func Column(f schema.Field, arrayItem bool) schema.ColumnDefinition {
	d := f.Descriptor
	if d.Repeated() {
		// expanded before nullability: repeated fields are never NOT NULL
		d = d.Unrepeated()
	}

	col := schema.ColumnDefinition{
		Name: f.Name,
		Type: RenderType(d),
	}
	if arrayItem {
		return col
	}

	if d.Description != "" {
		col.Options = " OPTIONS( description=" + quote(d.Description) + " )"
	}
	if d.Mode == schema.ModeRequired {
		col.NotNull = " NOT NULL"
	}
	return col
}

// BuildColumn joins the clauses of a column definition as
// `<name> <type><options><notNull>`. Array items have no name.
func BuildColumn(col schema.ColumnDefinition) string {
	if col.Name == "" {
		return col.Type + col.Options + col.NotNull
	}
	return col.Name + " " + col.Type + col.Options + col.NotNull
}

// renderParams returns "(precision, scale, length)" restricted to the set
// parameters, always in that order.
func renderParams(p schema.Params) string {
	var params []string
	for _, v := range []int{p.Precision, p.Scale, p.Length} {
		if v != 0 {
			params = append(params, strconv.Itoa(v))
		}
	}
	if len(params) == 0 {
		return ""
	}
	return "(" + strings.Join(params, ", ") + ")"
}
