// Package warehouse talks to a live BigQuery project: it reads existing
// table schemas for import and dry-runs generated statements.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
)

// ErrInvalidTableRef is returned for table references that are not
// dataset.table or project.dataset.table.
var ErrInvalidTableRef = errors.New("invalid table reference")

// TableRef identifies a table.
type TableRef struct {
	ProjectID string
	DatasetID string
	TableID   string
}

func (r TableRef) String() string {
	return r.ProjectID + "." + r.DatasetID + "." + r.TableID
}

// ParseTableRef parses `dataset.table` or `project.dataset.table`, with or
// without backticks. defaultProject fills a missing project.
func ParseTableRef(ref, defaultProject string) (TableRef, error) {
	parts := strings.Split(strings.Trim(strings.TrimSpace(ref), "`"), ".")
	for _, p := range parts {
		if p == "" {
			return TableRef{}, fmt.Errorf("%w: %q", ErrInvalidTableRef, ref)
		}
	}

	switch len(parts) {
	case 2:
		if defaultProject == "" {
			return TableRef{}, fmt.Errorf("%w: %q has no project", ErrInvalidTableRef, ref)
		}
		return TableRef{ProjectID: defaultProject, DatasetID: parts[0], TableID: parts[1]}, nil
	case 3:
		return TableRef{ProjectID: parts[0], DatasetID: parts[1], TableID: parts[2]}, nil
	default:
		return TableRef{}, fmt.Errorf("%w: %q", ErrInvalidTableRef, ref)
	}
}

// Client wraps a BigQuery client bound to one billing project.
type Client struct {
	bq *bigquery.Client
}

// New connects with application default credentials.
func New(ctx context.Context, projectID string) (*Client, error) {
	if projectID == "" {
		return nil, errors.New("project id is required")
	}
	bq, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating BigQuery client: %w", err)
	}
	return &Client{bq: bq}, nil
}

// Close releases the client.
func (c *Client) Close() error {
	return c.bq.Close()
}

// TableSchema reads the schema of an existing table.
func (c *Client) TableSchema(ctx context.Context, ref TableRef) (bigquery.Schema, error) {
	md, err := c.bq.DatasetInProject(ref.ProjectID, ref.DatasetID).Table(ref.TableID).Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading metadata of %s: %w", ref, err)
	}
	return md.Schema, nil
}

// DryRun submits sql as a dry-run query so the warehouse parses and plans it
// without executing. It returns the statement type reported back.
func (c *Client) DryRun(ctx context.Context, sql string) (string, error) {
	q := c.bq.Query(sql)
	q.DryRun = true

	job, err := q.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("dry run: %w", err)
	}
	status := job.LastStatus()
	if status == nil {
		return "", nil
	}
	if err := status.Err(); err != nil {
		return "", fmt.Errorf("dry run: %w", err)
	}
	if status.Statistics == nil {
		return "", nil
	}
	if qs, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		return qs.StatementType, nil
	}
	return "", nil
}
