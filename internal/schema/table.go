package schema

// Partitioning selects how a table is partitioned. The values match the
// labels the design tool stores.
type Partitioning string

const (
	PartitionNone          Partitioning = "No partitioning"
	PartitionIngestionTime Partitioning = "By ingestion time"
	PartitionTimeUnit      Partitioning = "By time-unit column"
	PartitionIntegerRange  Partitioning = "By integer-range"
)

// Ingestion-time granularities.
const (
	GranularityDay   = "By day"
	GranularityHour  = "By hour"
	GranularityMonth = "By month"
	GranularityYear  = "By year"
)

// Label is a key/value pair attached to a table or schema.
type Label struct {
	Key   string
	Value string
}

// RangeOptions configures integer-range partitioning. Bounds are kept as the
// text the user entered.
type RangeOptions struct {
	PartitionKey []string
	Start        string
	End          string
	Interval     string
}

// TableConfig is the flat set of table attributes a CREATE TABLE statement is
// assembled from. Sub-parameters of partitioning only matter for the
// matching Partitioning value.
type TableConfig struct {
	Name         string
	ProjectID    string
	DatabaseName string
	Columns      []Field

	Partitioning            Partitioning
	PartitioningType        string
	TimeUnitPartitionKey    []string
	RangeOptions            []RangeOptions
	PartitionFilterRequired bool

	ClusteringKey []string

	Temporary  bool
	External   bool
	OrReplace  bool
	IfNotExist bool

	Expiration    int64 // epoch milliseconds, 0 when unset
	EncryptionKey string
	Labels        []Label
	FriendlyName  string
	Description   string
}

// DatabaseConfig is the set of attributes of a CREATE SCHEMA statement.
type DatabaseConfig struct {
	Name              string
	ProjectID         string
	FriendlyName      string
	Description       string
	IfNotExist        bool
	DefaultExpiration float64 // days, 0 when unset
	EncryptionKey     string
	Labels            []Label
}
