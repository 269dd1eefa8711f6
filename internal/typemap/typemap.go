package typemap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Type is a BigQuery column type.
type Type string

const (
	TypeString     Type = "STRING"
	TypeBytes      Type = "BYTES"
	TypeInt64      Type = "INT64"
	TypeNumeric    Type = "NUMERIC"
	TypeBigNumeric Type = "BIGNUMERIC"
	TypeFloat64    Type = "FLOAT64"
	TypeBool       Type = "BOOL"
	TypeTimestamp  Type = "TIMESTAMP"
	TypeDate       Type = "DATE"
	TypeTime       Type = "TIME"
	TypeDatetime   Type = "DATETIME"
	TypeGeography  Type = "GEOGRAPHY"
	TypeJSON       Type = "JSON"
	TypeInterval   Type = "INTERVAL"
	TypeArray      Type = "ARRAY"
	TypeStruct     Type = "STRUCT"
)

// AllTypes lists the dialect vocabulary in display order.
var AllTypes = []Type{
	TypeString,
	TypeBytes,
	TypeInt64,
	TypeNumeric,
	TypeBigNumeric,
	TypeFloat64,
	TypeBool,
	TypeTimestamp,
	TypeDate,
	TypeTime,
	TypeDatetime,
	TypeGeography,
	TypeJSON,
	TypeInterval,
	TypeArray,
	TypeStruct,
}

// Type parameter names.
const (
	ParamPrecision = "precision"
	ParamScale     = "scale"
	ParamLength    = "length"
)

var acceptedParams = map[Type][]string{
	TypeString:     {ParamLength},
	TypeBytes:      {ParamLength},
	TypeNumeric:    {ParamPrecision, ParamScale},
	TypeBigNumeric: {ParamPrecision, ParamScale},
}

// Params returns the parameters t accepts, in rendering order.
func Params(t Type) []string {
	return acceptedParams[t]
}

// AcceptsParam reports whether t can be parameterized with param.
func AcceptsParam(t Type, param string) bool {
	for _, p := range acceptedParams[t] {
		if p == param {
			return true
		}
	}
	return false
}

// HasType reports whether name is part of the dialect vocabulary.
func HasType(name string) bool {
	upper := Type(strings.ToUpper(strings.TrimSpace(name)))
	for _, t := range AllTypes {
		if t == upper {
			return true
		}
	}
	return false
}

// IsContainer reports whether t nests other types.
func IsContainer(t Type) bool {
	return t == TypeArray || t == TypeStruct
}

// TypeMap maps the logical type names a design tool uses to dialect types.
type TypeMap struct {
	Mappings  map[string]Type `yaml:"mappings"`
	Overrides map[string]Type `yaml:"overrides,omitempty"`
	defaults  map[string]Type // not serialized; populated by New
}

func defaultMappings() map[string]Type {
	return map[string]Type{
		"string":     TypeString,
		"text":       TypeString,
		"char":       TypeString,
		"varchar":    TypeString,
		"uuid":       TypeString,
		"bytes":      TypeBytes,
		"binary":     TypeBytes,
		"integer":    TypeInt64,
		"int":        TypeInt64,
		"int64":      TypeInt64,
		"bigint":     TypeInt64,
		"smallint":   TypeInt64,
		"number":     TypeNumeric,
		"numeric":    TypeNumeric,
		"decimal":    TypeNumeric,
		"bignumeric": TypeBigNumeric,
		"bigdecimal": TypeBigNumeric,
		"float":      TypeFloat64,
		"float64":    TypeFloat64,
		"double":     TypeFloat64,
		"boolean":    TypeBool,
		"bool":       TypeBool,
		"timestamp":  TypeTimestamp,
		"date":       TypeDate,
		"time":       TypeTime,
		"datetime":   TypeDatetime,
		"geography":  TypeGeography,
		"json":       TypeJSON,
		"interval":   TypeInterval,
		"array":      TypeArray,
		"struct":     TypeStruct,
		"record":     TypeStruct,
		"object":     TypeStruct,
	}
}

// Default returns the default logical → dialect mapping.
func Default() *TypeMap {
	return &TypeMap{Mappings: defaultMappings()}
}

// New returns the default mapping with override tracking enabled.
func New() *TypeMap {
	tm := Default()
	tm.defaults = defaultMappings()
	tm.Overrides = make(map[string]Type)
	return tm
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Resolve returns the dialect type for a logical type name. Unknown names
// are returned unchanged; the renderer uppercases them.
func (tm *TypeMap) Resolve(logical string) Type {
	if t, ok := tm.Mappings[key(logical)]; ok {
		return t
	}
	return Type(logical)
}

// Override applies a user override for a logical type. Targets are
// normalized to the uppercase dialect spelling.
func (tm *TypeMap) Override(logical string, t Type) {
	k := key(logical)
	t = Type(strings.ToUpper(strings.TrimSpace(string(t))))
	tm.Mappings[k] = t
	if tm.Overrides == nil {
		tm.Overrides = make(map[string]Type)
	}
	// Track override only if different from default
	if tm.defaults != nil {
		if def, ok := tm.defaults[k]; ok && def == t {
			delete(tm.Overrides, k)
			return
		}
	}
	tm.Overrides[k] = t
}

// RestoreDefault restores the default mapping for a logical type.
func (tm *TypeMap) RestoreDefault(logical string) {
	k := key(logical)
	if tm.defaults != nil {
		if def, ok := tm.defaults[k]; ok {
			tm.Mappings[k] = def
			delete(tm.Overrides, k)
		}
	}
}

// IsOverridden returns true if the logical type has been overridden from its default.
func (tm *TypeMap) IsOverridden(logical string) bool {
	if tm.Overrides == nil {
		return false
	}
	_, ok := tm.Overrides[key(logical)]
	return ok
}

// SortedTypes returns the logical type names sorted alphabetically.
func (tm *TypeMap) SortedTypes() []string {
	types := make([]string, 0, len(tm.Mappings))
	for k := range tm.Mappings {
		types = append(types, k)
	}
	sort.Strings(types)
	return types
}

// WriteYAML writes the type mapping to a YAML file.
func (tm *TypeMap) WriteYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	data, err := yaml.Marshal(tm)
	if err != nil {
		return fmt.Errorf("marshaling type map: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// LoadYAML reads a type mapping from a YAML file. Entries in the file are
// layered over the defaults and tracked as overrides.
func LoadYAML(path string) (*TypeMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading type map file: %w", err)
	}
	loaded := &TypeMap{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing type map: %w", err)
	}

	tm := New()
	for logical, t := range loaded.Mappings {
		tm.Override(logical, t)
	}
	for logical, t := range loaded.Overrides {
		tm.Override(logical, t)
	}
	return tm, nil
}
