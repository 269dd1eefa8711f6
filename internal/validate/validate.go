// Package validate checks schema configuration before rendering. The
// renderer accepts anything; this package reports what the warehouse would
// reject, collecting every problem rather than stopping at the first.
package validate

import (
	"errors"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/reloquent/bqddl/internal/schema"
	"github.com/reloquent/bqddl/internal/typemap"
)

var (
	ErrMissingName          = errors.New("missing name")
	ErrNoColumns            = errors.New("table has no columns")
	ErrEmptyStruct          = errors.New("struct has no fields")
	ErrEmptyArray           = errors.New("array has no item type")
	ErrNestedArray          = errors.New("array of array is not supported")
	ErrUnknownType          = errors.New("unknown type")
	ErrUnsupportedParam     = errors.New("type does not accept parameter")
	ErrMissingPartitionKey  = errors.New("partition key not set")
	ErrUnknownPartitioning  = errors.New("unknown partitioning mode")
	ErrRangeBounds          = errors.New("invalid integer range")
	ErrUnknownColumn        = errors.New("column not defined in table")
	ErrTooManyClusterKeys   = errors.New("more than 4 clustering columns")
	ErrNegativeExpiration   = errors.New("expiration must be positive")
	ErrDuplicateField       = errors.New("duplicate field name")
)

const maxClusteringKeyColumns = 4

// Problem ties a validation error to the element it was found on.
type Problem struct {
	Path string
	Err  error
}

func (p *Problem) Error() string {
	return p.Path + ": " + p.Err.Error()
}

func (p *Problem) Unwrap() error {
	return p.Err
}

func problem(path string, err error) error {
	return &Problem{Path: path, Err: err}
}

// Problems flattens an error returned by this package into its parts.
func Problems(err error) []error {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return []error{err}
}

// Database validates a CREATE SCHEMA configuration.
func Database(cfg schema.DatabaseConfig) error {
	var result *multierror.Error
	path := join(cfg.ProjectID, cfg.Name)

	if strings.TrimSpace(cfg.Name) == "" {
		result = multierror.Append(result, problem(path, ErrMissingName))
	}
	if cfg.DefaultExpiration < 0 {
		result = multierror.Append(result, problem(path, ErrNegativeExpiration))
	}

	return result.ErrorOrNil()
}

// Table validates a CREATE TABLE configuration, including every column.
func Table(cfg schema.TableConfig) error {
	var result *multierror.Error
	path := join(cfg.DatabaseName, cfg.Name)

	if strings.TrimSpace(cfg.Name) == "" {
		result = multierror.Append(result, problem(path, ErrMissingName))
	}
	// external tables may infer their schema from the source files
	if len(cfg.Columns) == 0 && !cfg.External {
		result = multierror.Append(result, problem(path, ErrNoColumns))
	}
	result = multierror.Append(result, fields(path, cfg.Columns))

	columns := make(map[string]bool, len(cfg.Columns))
	for _, f := range cfg.Columns {
		columns[f.Name] = true
	}

	result = multierror.Append(result, partitioning(path, cfg, columns))

	if len(cfg.ClusteringKey) > maxClusteringKeyColumns {
		result = multierror.Append(result, problem(path, ErrTooManyClusterKeys))
	}
	for _, key := range cfg.ClusteringKey {
		if !columns[key] {
			result = multierror.Append(result, problem(path+" cluster "+key, ErrUnknownColumn))
		}
	}

	if cfg.Expiration < 0 {
		result = multierror.Append(result, problem(path, ErrNegativeExpiration))
	}

	return result.ErrorOrNil()
}

func partitioning(path string, cfg schema.TableConfig, columns map[string]bool) error {
	var result *multierror.Error

	switch cfg.Partitioning {
	case "", schema.PartitionNone, schema.PartitionIngestionTime:

	case schema.PartitionTimeUnit:
		result = multierror.Append(result, partitionKey(path, cfg.TimeUnitPartitionKey, columns))

	case schema.PartitionIntegerRange:
		if len(cfg.RangeOptions) == 0 {
			result = multierror.Append(result, problem(path+" partition", ErrMissingPartitionKey))
			break
		}
		r := cfg.RangeOptions[0]
		result = multierror.Append(result, partitionKey(path, r.PartitionKey, columns))

		start, errStart := strconv.ParseFloat(strings.TrimSpace(r.Start), 64)
		end, errEnd := strconv.ParseFloat(strings.TrimSpace(r.End), 64)
		switch {
		case errStart != nil || errEnd != nil:
			result = multierror.Append(result, problem(path+" partition", ErrRangeBounds))
		case start >= end:
			result = multierror.Append(result, problem(path+" partition", ErrRangeBounds))
		}
		if interval := strings.TrimSpace(r.Interval); interval != "" {
			if v, err := strconv.ParseFloat(interval, 64); err != nil || v <= 0 {
				result = multierror.Append(result, problem(path+" partition", ErrRangeBounds))
			}
		}

	default:
		result = multierror.Append(result, problem(path+" partition", ErrUnknownPartitioning))
	}

	return result.ErrorOrNil()
}

func partitionKey(path string, keys []string, columns map[string]bool) error {
	if len(keys) == 0 || strings.TrimSpace(keys[0]) == "" {
		return problem(path+" partition", ErrMissingPartitionKey)
	}
	if !columns[keys[0]] {
		return problem(path+" partition "+keys[0], ErrUnknownColumn)
	}
	return nil
}

// Field validates a column or struct member and everything nested in it.
func Field(path string, f schema.Field) error {
	var result *multierror.Error
	path = join(path, f.Name)

	if strings.TrimSpace(f.Name) == "" {
		result = multierror.Append(result, problem(path, ErrMissingName))
	}
	result = multierror.Append(result, descriptor(path, f.Descriptor, false))

	return result.ErrorOrNil()
}

func fields(path string, fs []schema.Field) error {
	var result *multierror.Error
	seen := make(map[string]bool, len(fs))
	for _, f := range fs {
		key := strings.ToLower(f.Name)
		if f.Name != "" && seen[key] {
			result = multierror.Append(result, problem(join(path, f.Name), ErrDuplicateField))
		}
		seen[key] = true
		result = multierror.Append(result, Field(path, f))
	}
	return result.ErrorOrNil()
}

func descriptor(path string, d schema.Descriptor, arrayItem bool) error {
	if d.Repeated() {
		d = d.Unrepeated()
	}

	switch t := d.Type.(type) {
	case schema.Struct:
		if len(t.Fields) == 0 {
			return problem(path, ErrEmptyStruct)
		}
		return fields(path, t.Fields)

	case schema.Array:
		if arrayItem {
			return problem(path, ErrNestedArray)
		}
		if len(t.Items) == 0 {
			return problem(path, ErrEmptyArray)
		}
		var result *multierror.Error
		for _, item := range t.Items {
			result = multierror.Append(result, descriptor(path+"[]", item, true))
		}
		return result.ErrorOrNil()

	case schema.Scalar:
		return scalar(path, t)
	}

	return problem(path, ErrUnknownType)
}

func scalar(path string, s schema.Scalar) error {
	name := typemap.Type(strings.ToUpper(strings.TrimSpace(s.Name)))
	if !typemap.HasType(string(name)) || typemap.IsContainer(name) {
		return problem(path+" "+s.Name, ErrUnknownType)
	}

	var result *multierror.Error
	params := []struct {
		name  string
		value int
	}{
		{typemap.ParamPrecision, s.Params.Precision},
		{typemap.ParamScale, s.Params.Scale},
		{typemap.ParamLength, s.Params.Length},
	}
	for _, p := range params {
		if p.value != 0 && !typemap.AcceptsParam(name, p.name) {
			result = multierror.Append(result, problem(path+" "+p.name, ErrUnsupportedParam))
		}
	}
	return result.ErrorOrNil()
}

func join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}
