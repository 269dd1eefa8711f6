package ddl

import (
	"strings"

	"github.com/reloquent/bqddl/internal/schema"
)

var ingestionGranularity = map[string]string{
	schema.GranularityDay:   "DAY",
	schema.GranularityHour:  "HOUR",
	schema.GranularityMonth: "MONTH",
	schema.GranularityYear:  "YEAR",
}

// TablePartitioning returns the PARTITION BY clause selected by
// cfg.Partitioning, or "" when the table is not partitioned.
func TablePartitioning(cfg schema.TableConfig) string {
	switch cfg.Partitioning {
	case schema.PartitionIngestionTime:
		unit, ok := ingestionGranularity[cfg.PartitioningType]
		if !ok {
			unit = "DAY"
		}
		return "PARTITION BY TIMESTAMP_TRUNC(_PARTITIONTIME, " + unit + ")"

	case schema.PartitionTimeUnit:
		return "PARTITION BY DATE(" + first(cfg.TimeUnitPartitionKey) + ")"

	case schema.PartitionIntegerRange:
		var opts schema.RangeOptions
		if len(cfg.RangeOptions) > 0 {
			opts = cfg.RangeOptions[0]
		}
		return "PARTITION BY " + rangeBucket(opts)
	}

	return ""
}

func rangeBucket(opts schema.RangeOptions) string {
	bounds := rangeBound(opts.Start) + ", " + rangeBound(opts.End)
	if v, ok := parseNumber(opts.Interval); ok {
		bounds += ", " + formatNumber(v)
	}
	return "RANGE_BUCKET(" + first(opts.PartitionKey) + ", GENERATE_ARRAY(" + bounds + "))"
}

// rangeBound normalizes a numeric bound. Blank bounds count as 0; text that
// is not a number is passed through for the warehouse to reject.
func rangeBound(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	if v, ok := parseNumber(s); ok {
		return formatNumber(v)
	}
	return strings.TrimSpace(s)
}

func first(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// TableClustering returns `CLUSTER BY a, b` in key order, or "".
func TableClustering(cfg schema.TableConfig) string {
	if len(cfg.ClusteringKey) == 0 {
		return ""
	}
	return "CLUSTER BY " + strings.Join(cfg.ClusteringKey, ", ")
}

// TableOptions returns the OPTIONS block of a table, or "" when none of its
// options is set. require_partition_filter only applies to ingestion-time
// partitioning.
func TableOptions(cfg schema.TableConfig) string {
	var opts []string

	if cfg.FriendlyName != "" {
		opts = append(opts, "friendly_name="+quote(cfg.FriendlyName))
	}
	if cfg.Description != "" {
		opts = append(opts, "description="+quote(cfg.Description))
	}
	if cfg.Expiration != 0 {
		opts = append(opts, `expiration_timestamp=TIMESTAMP "`+Timestamp(cfg.Expiration)+`"`)
	}
	if cfg.Partitioning == schema.PartitionIngestionTime && cfg.PartitionFilterRequired {
		opts = append(opts, "require_partition_filter=true")
	}
	if cfg.EncryptionKey != "" {
		opts = append(opts, "kms_key_name="+quote(cfg.EncryptionKey))
	}
	if len(cfg.Labels) > 0 {
		opts = append(opts, labelsOption(cfg.Labels))
	}

	if len(opts) == 0 {
		return ""
	}
	return "OPTIONS (\n" + indent(strings.Join(opts, ",\n")) + "\n)"
}

// DatabaseOptions returns the OPTIONS block of a schema (dataset), or "".
func DatabaseOptions(cfg schema.DatabaseConfig) string {
	var opts []string

	if cfg.FriendlyName != "" {
		opts = append(opts, "friendly_name="+quote(cfg.FriendlyName))
	}
	if cfg.Description != "" {
		opts = append(opts, "description="+quote(cfg.Description))
	}
	if cfg.EncryptionKey != "" {
		opts = append(opts, "default_kms_key_name="+quote(cfg.EncryptionKey))
	}
	if cfg.DefaultExpiration != 0 {
		opts = append(opts, "default_table_expiration_days="+formatNumber(cfg.DefaultExpiration))
	}
	if len(cfg.Labels) > 0 {
		opts = append(opts, labelsOption(cfg.Labels))
	}

	if len(opts) == 0 {
		return ""
	}
	return "OPTIONS(\n" + indent(strings.Join(opts, ",\n")) + "\n)"
}

func labelsOption(labels []schema.Label) string {
	return "labels=[\n" + indent(Labels(labels)) + "\n]"
}
