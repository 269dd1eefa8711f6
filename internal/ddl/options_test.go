package ddl

import (
	"testing"

	"github.com/reloquent/bqddl/internal/schema"
)

func TestTablePartitioning(t *testing.T) {
	tests := []struct {
		name string
		cfg  schema.TableConfig
		want string
	}{
		{
			name: "no partitioning",
			cfg:  schema.TableConfig{Partitioning: schema.PartitionNone},
			want: "",
		},
		{
			name: "unset partitioning",
			cfg:  schema.TableConfig{},
			want: "",
		},
		{
			name: "ingestion time by hour",
			cfg:  schema.TableConfig{Partitioning: schema.PartitionIngestionTime, PartitioningType: schema.GranularityHour},
			want: "PARTITION BY TIMESTAMP_TRUNC(_PARTITIONTIME, HOUR)",
		},
		{
			name: "ingestion time by year",
			cfg:  schema.TableConfig{Partitioning: schema.PartitionIngestionTime, PartitioningType: schema.GranularityYear},
			want: "PARTITION BY TIMESTAMP_TRUNC(_PARTITIONTIME, YEAR)",
		},
		{
			name: "ingestion time defaults to day",
			cfg:  schema.TableConfig{Partitioning: schema.PartitionIngestionTime, PartitioningType: "By fortnight"},
			want: "PARTITION BY TIMESTAMP_TRUNC(_PARTITIONTIME, DAY)",
		},
		{
			name: "ingestion time without granularity",
			cfg:  schema.TableConfig{Partitioning: schema.PartitionIngestionTime},
			want: "PARTITION BY TIMESTAMP_TRUNC(_PARTITIONTIME, DAY)",
		},
		{
			name: "time-unit column",
			cfg:  schema.TableConfig{Partitioning: schema.PartitionTimeUnit, TimeUnitPartitionKey: []string{"created_at", "ignored"}},
			want: "PARTITION BY DATE(created_at)",
		},
		{
			name: "time-unit column without key",
			cfg:  schema.TableConfig{Partitioning: schema.PartitionTimeUnit},
			want: "PARTITION BY DATE()",
		},
		{
			name: "integer range",
			cfg: schema.TableConfig{
				Partitioning: schema.PartitionIntegerRange,
				RangeOptions: []schema.RangeOptions{{PartitionKey: []string{"id"}, Start: "0", End: "100", Interval: "10"}},
			},
			want: "PARTITION BY RANGE_BUCKET(id, GENERATE_ARRAY(0, 100, 10))",
		},
		{
			name: "integer range without numeric interval",
			cfg: schema.TableConfig{
				Partitioning: schema.PartitionIntegerRange,
				RangeOptions: []schema.RangeOptions{{PartitionKey: []string{"id"}, Start: "0", End: "100", Interval: "ten"}},
			},
			want: "PARTITION BY RANGE_BUCKET(id, GENERATE_ARRAY(0, 100))",
		},
		{
			name: "integer range with blank interval",
			cfg: schema.TableConfig{
				Partitioning: schema.PartitionIntegerRange,
				RangeOptions: []schema.RangeOptions{{PartitionKey: []string{"id"}, Start: "-50", End: "1e3"}},
			},
			want: "PARTITION BY RANGE_BUCKET(id, GENERATE_ARRAY(-50, 1000))",
		},
		{
			name: "integer range normalizes bounds",
			cfg: schema.TableConfig{
				Partitioning: schema.PartitionIntegerRange,
				RangeOptions: []schema.RangeOptions{{PartitionKey: []string{"bucket"}, Start: " 1.50 ", End: "", Interval: "2.0"}},
			},
			want: "PARTITION BY RANGE_BUCKET(bucket, GENERATE_ARRAY(1.5, 0, 2))",
		},
		{
			name: "integer range passes non-numeric bounds through",
			cfg: schema.TableConfig{
				Partitioning: schema.PartitionIntegerRange,
				RangeOptions: []schema.RangeOptions{{PartitionKey: []string{"id"}, Start: " abc ", End: "1000", Interval: "10"}},
			},
			want: "PARTITION BY RANGE_BUCKET(id, GENERATE_ARRAY(abc, 1000, 10))",
		},
		{
			name: "integer range without options",
			cfg:  schema.TableConfig{Partitioning: schema.PartitionIntegerRange},
			want: "PARTITION BY RANGE_BUCKET(, GENERATE_ARRAY(0, 0))",
		},
		{
			name: "unknown mode",
			cfg:  schema.TableConfig{Partitioning: "By moon phase"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TablePartitioning(tt.cfg); got != tt.want {
				t.Errorf("TablePartitioning = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableClustering(t *testing.T) {
	if got := TableClustering(schema.TableConfig{}); got != "" {
		t.Errorf("TableClustering(empty) = %q, want empty", got)
	}

	cfg := schema.TableConfig{ClusteringKey: []string{"country", "city", "zip"}}
	want := "CLUSTER BY country, city, zip"
	if got := TableClustering(cfg); got != want {
		t.Errorf("TableClustering = %q, want %q", got, want)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "1970-01-01 00:00:00 UTC"},
		{1000, "1970-01-01 00:00:01 UTC"},
		{1700000000000, "2023-11-14 22:13:20 UTC"},
		{1709251199999, "2024-02-29 23:59:59 UTC"},
	}

	for _, tt := range tests {
		if got := Timestamp(tt.ms); got != tt.want {
			t.Errorf("Timestamp(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestTimestampIgnoresLocalZone(t *testing.T) {
	t.Setenv("TZ", "Asia/Kolkata")
	if got := Timestamp(0); got != "1970-01-01 00:00:00 UTC" {
		t.Errorf("Timestamp(0) = %q", got)
	}
}

func TestTableOptionsEmpty(t *testing.T) {
	cfg := schema.TableConfig{
		Partitioning:            schema.PartitionTimeUnit,
		PartitionFilterRequired: true,
	}
	if got := TableOptions(cfg); got != "" {
		t.Errorf("TableOptions = %q, want empty", got)
	}
}

func TestTableOptionsAll(t *testing.T) {
	cfg := schema.TableConfig{
		FriendlyName:            "Orders",
		Description:             "All orders",
		Expiration:              1000,
		Partitioning:            schema.PartitionIngestionTime,
		PartitionFilterRequired: true,
		EncryptionKey:           "projects/p/locations/eu/keyRings/r/cryptoKeys/k",
		Labels: []schema.Label{
			{Key: "env", Value: "prod"},
			{Key: "team", Value: "data"},
		},
	}

	want := "OPTIONS (\n" +
		"  friendly_name=\"Orders\",\n" +
		"  description=\"All orders\",\n" +
		"  expiration_timestamp=TIMESTAMP \"1970-01-01 00:00:01 UTC\",\n" +
		"  require_partition_filter=true,\n" +
		"  kms_key_name=\"projects/p/locations/eu/keyRings/r/cryptoKeys/k\",\n" +
		"  labels=[\n" +
		"    (\"env\", \"prod\"),\n" +
		"    (\"team\", \"data\")\n" +
		"  ]\n" +
		")"
	if got := TableOptions(cfg); got != want {
		t.Errorf("TableOptions =\n%s\nwant\n%s", got, want)
	}
}

func TestTableOptionsPartitionFilterOnlyForIngestionTime(t *testing.T) {
	for _, p := range []schema.Partitioning{schema.PartitionNone, schema.PartitionTimeUnit, schema.PartitionIntegerRange} {
		cfg := schema.TableConfig{Partitioning: p, PartitionFilterRequired: true, Description: "d"}
		want := "OPTIONS (\n  description=\"d\"\n)"
		if got := TableOptions(cfg); got != want {
			t.Errorf("%s: TableOptions = %q, want %q", p, got, want)
		}
	}
}

func TestTableOptionsEscapesLiterals(t *testing.T) {
	cfg := schema.TableConfig{Description: "line one\nsays \"hi\" \\o/"}
	want := "OPTIONS (\n  description=\"line one\\nsays \\\"hi\\\" \\\\o/\"\n)"
	if got := TableOptions(cfg); got != want {
		t.Errorf("TableOptions = %q, want %q", got, want)
	}
}

func TestDatabaseOptions(t *testing.T) {
	if got := DatabaseOptions(schema.DatabaseConfig{Name: "sales"}); got != "" {
		t.Errorf("DatabaseOptions(empty) = %q, want empty", got)
	}

	cfg := schema.DatabaseConfig{
		FriendlyName:      "Sales",
		Description:       "Sales data",
		EncryptionKey:     "kms/key",
		DefaultExpiration: 30,
		Labels:            []schema.Label{{Key: "env", Value: "dev"}},
	}
	want := "OPTIONS(\n" +
		"  friendly_name=\"Sales\",\n" +
		"  description=\"Sales data\",\n" +
		"  default_kms_key_name=\"kms/key\",\n" +
		"  default_table_expiration_days=30,\n" +
		"  labels=[\n" +
		"    (\"env\", \"dev\")\n" +
		"  ]\n" +
		")"
	if got := DatabaseOptions(cfg); got != want {
		t.Errorf("DatabaseOptions =\n%s\nwant\n%s", got, want)
	}

	cfg = schema.DatabaseConfig{DefaultExpiration: 0.5}
	if got := DatabaseOptions(cfg); got != "OPTIONS(\n  default_table_expiration_days=0.5\n)" {
		t.Errorf("DatabaseOptions(fractional) = %q", got)
	}
}

func TestLabels(t *testing.T) {
	got := Labels([]schema.Label{{Key: "a", Value: "1"}, {Key: "b", Value: `x"y`}})
	want := "(\"a\", \"1\"),\n(\"b\", \"x\\\"y\")"
	if got != want {
		t.Errorf("Labels = %q, want %q", got, want)
	}
	if got := Labels(nil); got != "" {
		t.Errorf("Labels(nil) = %q, want empty", got)
	}
}
