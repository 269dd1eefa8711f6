// Package model holds the records a schema design tool exports: a project
// with containers (datasets), entities (tables) and their properties
// (columns). Field names follow the tool's export format so files can be
// written by the tool and read here without translation.
package model

// Model is the complete exported design.
type Model struct {
	ModelData  ModelData   `yaml:"model" json:"model"`
	Containers []Container `yaml:"containers" json:"containers"`
}

// ModelData carries project-wide settings.
type ModelData struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	ProjectID string `yaml:"projectID,omitempty" json:"projectID,omitempty"`
}

// Container is a dataset with its tables.
type Container struct {
	Name                  string        `yaml:"name" json:"name"`
	BusinessBucketName    string        `yaml:"businessBucketName,omitempty" json:"businessBucketName,omitempty"`
	Description           string        `yaml:"description,omitempty" json:"description,omitempty"`
	IsActivated           *bool         `yaml:"isActivated,omitempty" json:"isActivated,omitempty"`
	IfNotExist            bool          `yaml:"ifNotExist,omitempty" json:"ifNotExist,omitempty"`
	EnableTableExpiration bool          `yaml:"enableTableExpiration,omitempty" json:"enableTableExpiration,omitempty"`
	DefaultExpiration     float64       `yaml:"defaultExpiration,omitempty" json:"defaultExpiration,omitempty"`
	Encryption            string        `yaml:"encryption,omitempty" json:"encryption,omitempty"` // Google-managed or Customer-managed
	CustomerEncryptionKey string        `yaml:"customerEncryptionKey,omitempty" json:"customerEncryptionKey,omitempty"`
	Labels                []LabelRecord `yaml:"labels,omitempty" json:"labels,omitempty"`
	Entities              []Entity      `yaml:"entities,omitempty" json:"entities,omitempty"`
}

// Activated reports whether the container takes part in generation.
// Containers without the flag are active.
func (c Container) Activated() bool {
	return c.IsActivated == nil || *c.IsActivated
}

// Entity is a table.
type Entity struct {
	CollectionName             string        `yaml:"collectionName" json:"collectionName"`
	Title                      string        `yaml:"title,omitempty" json:"title,omitempty"`
	Description                string        `yaml:"description,omitempty" json:"description,omitempty"`
	IsActivated                *bool         `yaml:"isActivated,omitempty" json:"isActivated,omitempty"`
	OrReplace                  bool          `yaml:"orReplace,omitempty" json:"orReplace,omitempty"`
	IfNotExist                 bool          `yaml:"ifNotExist,omitempty" json:"ifNotExist,omitempty"`
	Temporary                  bool          `yaml:"temporary,omitempty" json:"temporary,omitempty"`
	TableType                  string        `yaml:"tableType,omitempty" json:"tableType,omitempty"` // Native or External
	Partitioning               string        `yaml:"partitioning,omitempty" json:"partitioning,omitempty"`
	PartitioningType           string        `yaml:"partitioningType,omitempty" json:"partitioningType,omitempty"`
	TimeUnitPartitionKey       []KeyRef      `yaml:"timeUnitpartitionKey,omitempty" json:"timeUnitpartitionKey,omitempty"`
	PartitioningFilterRequired bool          `yaml:"partitioningFilterRequired,omitempty" json:"partitioningFilterRequired,omitempty"`
	RangeOptions               []RangeOption `yaml:"rangeOptions,omitempty" json:"rangeOptions,omitempty"`
	Expiration                 int64         `yaml:"expiration,omitempty" json:"expiration,omitempty"` // epoch millis
	ClusteringKey              []KeyRef      `yaml:"clusteringKey,omitempty" json:"clusteringKey,omitempty"`
	Encryption                 bool          `yaml:"encryption,omitempty" json:"encryption,omitempty"`
	CustomerEncryptionKey      string        `yaml:"customerEncryptionKey,omitempty" json:"customerEncryptionKey,omitempty"`
	Labels                     []LabelRecord `yaml:"labels,omitempty" json:"labels,omitempty"`
	Properties                 []Property    `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// Activated reports whether the entity takes part in generation.
func (e Entity) Activated() bool {
	return e.IsActivated == nil || *e.IsActivated
}

// Property is a column, a struct member or an array item.
type Property struct {
	Name         string     `yaml:"name,omitempty" json:"name,omitempty"`
	Type         string     `yaml:"type" json:"type"`
	DataTypeMode string     `yaml:"dataTypeMode,omitempty" json:"dataTypeMode,omitempty"`
	Description  string     `yaml:"description,omitempty" json:"description,omitempty"`
	Precision    int        `yaml:"precision,omitempty" json:"precision,omitempty"`
	Scale        int        `yaml:"scale,omitempty" json:"scale,omitempty"`
	Length       int        `yaml:"length,omitempty" json:"length,omitempty"`
	Properties   []Property `yaml:"properties,omitempty" json:"properties,omitempty"`
	Items        Items      `yaml:"items,omitempty" json:"items,omitempty"`
}

// KeyRef references a column by name.
type KeyRef struct {
	Name string `yaml:"name" json:"name"`
}

// LabelRecord is a label as the design tool stores it.
type LabelRecord struct {
	LabelKey   string `yaml:"labelKey" json:"labelKey"`
	LabelValue string `yaml:"labelValue" json:"labelValue"`
}

// RangeOption configures integer-range partitioning.
type RangeOption struct {
	RangePartitionKey []KeyRef `yaml:"rangePartitionKey,omitempty" json:"rangePartitionKey,omitempty"`
	RangeStart        string   `yaml:"rangeStart,omitempty" json:"rangeStart,omitempty"`
	RangeEnd          string   `yaml:"rangeEnd,omitempty" json:"rangeEnd,omitempty"`
	RangeInterval     string   `yaml:"rangeinterval,omitempty" json:"rangeinterval,omitempty"`
}

// Container returns the container with the given name.
func (m *Model) Container(name string) (*Container, bool) {
	for i := range m.Containers {
		if m.Containers[i].Name == name {
			return &m.Containers[i], true
		}
	}
	return nil, false
}

// Entity returns the entity with the given name.
func (c *Container) Entity(name string) (*Entity, bool) {
	for i := range c.Entities {
		if c.Entities[i].CollectionName == name {
			return &c.Entities[i], true
		}
	}
	return nil, false
}

// PutEntity adds e to the container, replacing an entity of the same name.
func (c *Container) PutEntity(e Entity) {
	if existing, ok := c.Entity(e.CollectionName); ok {
		*existing = e
		return
	}
	c.Entities = append(c.Entities, e)
}
