// Package hydrate maps design-tool records onto the schema package's plain
// configuration. It is the only place that knows the tool's field names and
// conventions; the renderer never sees them.
package hydrate

import (
	"strings"

	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/schema"
	"github.com/reloquent/bqddl/internal/typemap"
)

const (
	tableTypeExternal       = "External"
	encryptionCustomerOwned = "Customer-managed"
)

// Hydrator resolves logical type names through a type map.
type Hydrator struct {
	TypeMap *typemap.TypeMap
}

// New returns a Hydrator. A nil type map means the defaults.
func New(tm *typemap.TypeMap) *Hydrator {
	if tm == nil {
		tm = typemap.New()
	}
	return &Hydrator{TypeMap: tm}
}

// Database builds the CREATE SCHEMA configuration of a container.
func (h *Hydrator) Database(c model.Container, md model.ModelData) schema.DatabaseConfig {
	cfg := schema.DatabaseConfig{
		Name:         c.Name,
		ProjectID:    md.ProjectID,
		FriendlyName: c.BusinessBucketName,
		Description:  c.Description,
		IfNotExist:   c.IfNotExist,
		Labels:       Labels(c.Labels),
	}
	if c.EnableTableExpiration {
		cfg.DefaultExpiration = c.DefaultExpiration
	}
	if c.Encryption == encryptionCustomerOwned {
		cfg.EncryptionKey = c.CustomerEncryptionKey
	}
	return cfg
}

// Table builds the CREATE TABLE configuration of an entity.
func (h *Hydrator) Table(e model.Entity, c model.Container, md model.ModelData) schema.TableConfig {
	cfg := schema.TableConfig{
		Name:                    e.CollectionName,
		ProjectID:               md.ProjectID,
		DatabaseName:            c.Name,
		Columns:                 h.Fields(e.Properties),
		Partitioning:            schema.Partitioning(e.Partitioning),
		PartitioningType:        e.PartitioningType,
		TimeUnitPartitionKey:    keyNames(e.TimeUnitPartitionKey),
		PartitionFilterRequired: e.PartitioningFilterRequired,
		ClusteringKey:           keyNames(e.ClusteringKey),
		Temporary:               e.Temporary,
		External:                e.TableType == tableTypeExternal,
		OrReplace:               e.OrReplace,
		IfNotExist:              e.IfNotExist,
		Expiration:              e.Expiration,
		Labels:                  Labels(e.Labels),
		Description:             e.Description,
	}

	// the title defaults to the collection name; only a distinct title is a friendly name
	if e.Title != "" && e.Title != e.CollectionName {
		cfg.FriendlyName = e.Title
	}
	if e.Encryption {
		cfg.EncryptionKey = e.CustomerEncryptionKey
	}
	for _, r := range e.RangeOptions {
		cfg.RangeOptions = append(cfg.RangeOptions, schema.RangeOptions{
			PartitionKey: keyNames(r.RangePartitionKey),
			Start:        r.RangeStart,
			End:          r.RangeEnd,
			Interval:     r.RangeInterval,
		})
	}
	return cfg
}

// Fields hydrates properties in order.
func (h *Hydrator) Fields(props []model.Property) []schema.Field {
	fields := make([]schema.Field, 0, len(props))
	for _, p := range props {
		fields = append(fields, h.Field(p))
	}
	return fields
}

// Field hydrates one named property.
func (h *Hydrator) Field(p model.Property) schema.Field {
	return h.Descriptor(p).Named(p.Name)
}

// Descriptor hydrates the type of a property, recursing into struct members
// and array items.
func (h *Hydrator) Descriptor(p model.Property) schema.Descriptor {
	d := schema.Descriptor{
		Mode:        Mode(p.DataTypeMode),
		Description: p.Description,
	}

	switch t := h.TypeMap.Resolve(p.Type); t {
	case typemap.TypeArray:
		items := make([]schema.Descriptor, 0, len(p.Items))
		for _, item := range p.Items {
			items = append(items, h.Descriptor(item))
		}
		d.Type = schema.Array{Items: items}
	case typemap.TypeStruct:
		d.Type = schema.Struct{Fields: h.Fields(p.Properties)}
	default:
		d.Type = schema.Scalar{
			Name: string(t),
			Params: schema.Params{
				Precision: p.Precision,
				Scale:     p.Scale,
				Length:    p.Length,
			},
		}
	}
	return d
}

// Mode normalizes a data type mode; unknown modes are nullable.
func Mode(s string) schema.Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "required":
		return schema.ModeRequired
	case "repeated":
		return schema.ModeRepeated
	default:
		return schema.ModeNullable
	}
}

// Labels converts label records, keeping their order.
func Labels(records []model.LabelRecord) []schema.Label {
	if len(records) == 0 {
		return nil
	}
	labels := make([]schema.Label, 0, len(records))
	for _, r := range records {
		labels = append(labels, schema.Label{Key: r.LabelKey, Value: r.LabelValue})
	}
	return labels
}

func keyNames(refs []model.KeyRef) []string {
	if len(refs) == 0 {
		return nil
	}
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	return names
}
