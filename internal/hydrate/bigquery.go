package hydrate

import (
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"

	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/schema"
)

// legacy type names used by the BigQuery API and JSON schema files
var bigQueryTypeNames = map[bigquery.FieldType]string{
	bigquery.IntegerFieldType: "int64",
	bigquery.FloatFieldType:   "float64",
	bigquery.BooleanFieldType: "bool",
	bigquery.RecordFieldType:  "struct",
}

// ParseBigQueryJSON parses a BigQuery JSON table schema, as written by
// `bq show --schema`, into design-tool properties.
func ParseBigQueryJSON(data []byte) ([]model.Property, error) {
	s, err := bigquery.SchemaFromJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing BigQuery schema: %w", err)
	}
	return PropertiesFromBigQuery(s), nil
}

// PropertiesFromBigQuery converts a BigQuery schema into design-tool
// properties so it can be stored in a model file.
func PropertiesFromBigQuery(s bigquery.Schema) []model.Property {
	props := make([]model.Property, 0, len(s))
	for _, fs := range s {
		if fs == nil {
			continue
		}
		props = append(props, propertyFromBigQuery(fs))
	}
	return props
}

func propertyFromBigQuery(fs *bigquery.FieldSchema) model.Property {
	p := model.Property{
		Name:        fs.Name,
		Type:        bigQueryTypeName(fs.Type),
		Description: fs.Description,
		Precision:   int(fs.Precision),
		Scale:       int(fs.Scale),
		Length:      int(fs.MaxLength),
	}

	if fs.Repeated {
		p.DataTypeMode = string(schema.ModeRepeated)
	} else if fs.Required {
		p.DataTypeMode = string(schema.ModeRequired)
	}

	if len(fs.Schema) > 0 {
		p.Properties = PropertiesFromBigQuery(fs.Schema)
	}
	return p
}

func bigQueryTypeName(t bigquery.FieldType) string {
	if name, ok := bigQueryTypeNames[t]; ok {
		return name
	}
	return strings.ToLower(string(t))
}

// FromBigQuery hydrates a BigQuery schema directly into fields.
func (h *Hydrator) FromBigQuery(s bigquery.Schema) []schema.Field {
	return h.Fields(PropertiesFromBigQuery(s))
}
