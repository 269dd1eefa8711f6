// Package schema holds the structural description of warehouse objects that
// the ddl package renders: column type descriptors, table and schema
// (dataset) configuration, and labels. Values are built fresh for every
// generation call and are never mutated by the renderer.
package schema

// Mode is the nullability mode of a column or nested field.
type Mode string

const (
	ModeNullable Mode = "Nullable"
	ModeRequired Mode = "Required"
	ModeRepeated Mode = "Repeated"
)

// Kind discriminates the Type sum type.
type Kind int

const (
	KindScalar Kind = iota
	KindArray
	KindStruct
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return "scalar"
	}
}

// Type is one of Scalar, Array or Struct.
type Type interface {
	Kind() Kind
}

// Params are the optional type parameters. Zero means unset.
type Params struct {
	Precision int
	Scale     int
	Length    int
}

// IsZero reports whether no parameter is set.
func (p Params) IsZero() bool {
	return p.Precision == 0 && p.Scale == 0 && p.Length == 0
}

// Scalar is a named leaf type such as INT64 or NUMERIC(10, 2).
type Scalar struct {
	Name   string
	Params Params
}

// Array holds its item types. Typical input has exactly one item.
type Array struct {
	Items []Descriptor
}

// Struct holds its fields in declaration order.
type Struct struct {
	Fields []Field
}

func (Scalar) Kind() Kind { return KindScalar }
func (Array) Kind() Kind  { return KindArray }
func (Struct) Kind() Kind { return KindStruct }

// Descriptor describes the type of a column, struct field or array item.
type Descriptor struct {
	Type        Type
	Mode        Mode
	Description string
}

// Field is a named descriptor: a top-level column or a struct member.
type Field struct {
	Name string
	Descriptor
}

// Kind returns the kind of the descriptor's type. A nil type is treated as
// an unnamed scalar.
func (d Descriptor) Kind() Kind {
	if d.Type == nil {
		return KindScalar
	}
	return d.Type.Kind()
}

// Repeated reports whether d uses the repeated shorthand, i.e. it is marked
// Repeated but is not already an array.
func (d Descriptor) Repeated() bool {
	return d.Mode == ModeRepeated && d.Kind() != KindArray
}

// Unrepeated returns the array that the repeated shorthand stands for: a
// one-item array whose item is d without mode or description.
func (d Descriptor) Unrepeated() Descriptor {
	item := Descriptor{Type: d.Type}
	return Descriptor{
		Type:        Array{Items: []Descriptor{item}},
		Description: d.Description,
	}
}

// Convenience constructors used by hydration and tests.

// NewScalar returns a nullable scalar descriptor.
func NewScalar(name string, params Params) Descriptor {
	return Descriptor{Type: Scalar{Name: name, Params: params}}
}

// NewArray returns a nullable array descriptor.
func NewArray(items ...Descriptor) Descriptor {
	return Descriptor{Type: Array{Items: items}}
}

// NewStruct returns a nullable struct descriptor.
func NewStruct(fields ...Field) Descriptor {
	return Descriptor{Type: Struct{Fields: fields}}
}

// With returns a copy of d with the given mode.
func (d Descriptor) With(mode Mode) Descriptor {
	d.Mode = mode
	return d
}

// Described returns a copy of d with the given description.
func (d Descriptor) Described(description string) Descriptor {
	d.Description = description
	return d
}

// Named wraps d into a field.
func (d Descriptor) Named(name string) Field {
	return Field{Name: name, Descriptor: d}
}

// ColumnDefinition is one rendered column or struct member, split into the
// clauses the column builder joins.
type ColumnDefinition struct {
	Name    string
	Type    string
	Options string // "" or " OPTIONS( ... )"
	NotNull string // "" or " NOT NULL"
}
