package api

import (
	"github.com/reloquent/bqddl/internal/generate"
	"github.com/reloquent/bqddl/internal/model"
)

// TypeInfo describes one dialect type.
type TypeInfo struct {
	Name      string   `json:"name"`
	Params    []string `json:"params,omitempty"`
	Container bool     `json:"container,omitempty"`
}

// TypesResponse is the API response for GET /api/types.
type TypesResponse struct {
	Types    []TypeInfo        `json:"types"`
	Mappings map[string]string `json:"mappings"` // logical name -> dialect type
}

// ColumnRequest is the request body for POST /api/ddl/column.
type ColumnRequest struct {
	Property model.Property `json:"property"`
}

// DatabaseRequest is the request body for POST /api/ddl/database.
type DatabaseRequest struct {
	ProjectID string          `json:"projectID,omitempty"`
	Dataset   model.Container `json:"dataset"`
}

// TableRequest is the request body for POST /api/ddl/table.
type TableRequest struct {
	ProjectID string          `json:"projectID,omitempty"`
	Dataset   model.Container `json:"dataset"`
	Table     model.Entity    `json:"table"`
}

// DDLResponse is the API response for a single rendered statement.
type DDLResponse struct {
	SQL         string   `json:"sql"`
	Fingerprint string   `json:"fingerprint"`
	Problems    []string `json:"problems,omitempty"`
}

// ModelResponse is the API response for POST /api/ddl/model.
type ModelResponse struct {
	Statements  []generate.Statement `json:"statements"`
	Script      string               `json:"script"`
	Fingerprint string               `json:"fingerprint"`
	Problems    []string             `json:"problems,omitempty"`
}

// ValidateResponse is the API response for POST /api/validate.
type ValidateResponse struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

func problemStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}
