package api

import (
	"net/http"

	"github.com/reloquent/bqddl/internal/ddl"
	"github.com/reloquent/bqddl/internal/generate"
	"github.com/reloquent/bqddl/internal/hydrate"
	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/typemap"
	"github.com/reloquent/bqddl/internal/validate"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	resp := TypesResponse{
		Types:    make([]TypeInfo, 0, len(typemap.AllTypes)),
		Mappings: make(map[string]string),
	}
	for _, t := range typemap.AllTypes {
		resp.Types = append(resp.Types, TypeInfo{
			Name:      string(t),
			Params:    typemap.Params(t),
			Container: typemap.IsContainer(t),
		})
	}
	for _, logical := range s.typeMap.SortedTypes() {
		resp.Mappings[logical] = string(s.typeMap.Resolve(logical))
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleColumn(w http.ResponseWriter, r *http.Request) {
	var req ColumnRequest
	if !decodeBody(w, r, &req) {
		return
	}

	f := hydrate.New(s.typeMap).Field(req.Property)
	sql := ddl.RenderColumn(f)
	etagResponse(w, r, generate.Fingerprint(sql), DDLResponse{
		SQL:         sql,
		Fingerprint: generate.Fingerprint(sql),
		Problems:    problemStrings(validate.Problems(validate.Field("", f))),
	})
}

func (s *Server) handleDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	db := hydrate.New(s.typeMap).Database(req.Dataset, s.modelData(req.ProjectID))
	generate.ApplyDefaults(&db, s.config.Defaults)
	sql := ddl.CreateDatabase(db)
	etagResponse(w, r, generate.Fingerprint(sql), DDLResponse{
		SQL:         sql,
		Fingerprint: generate.Fingerprint(sql),
		Problems:    problemStrings(validate.Problems(validate.Database(db))),
	})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	var req TableRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tbl := hydrate.New(s.typeMap).Table(req.Table, req.Dataset, s.modelData(req.ProjectID))
	sql := ddl.CreateTable(tbl)
	etagResponse(w, r, generate.Fingerprint(sql), DDLResponse{
		SQL:         sql,
		Fingerprint: generate.Fingerprint(sql),
		Problems:    problemStrings(validate.Problems(validate.Table(tbl))),
	})
}

func (s *Server) handleModel(w http.ResponseWriter, r *http.Request) {
	result, ok := s.generate(w, r)
	if !ok {
		return
	}

	script := result.Script(s.config.Output.Terminator)
	fp := generate.Fingerprint(script)
	etagResponse(w, r, fp, ModelResponse{
		Statements:  result.Statements,
		Script:      script,
		Fingerprint: fp,
		Problems:    problemStrings(result.Problems),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	result, ok := s.generate(w, r)
	if !ok {
		return
	}

	jsonResponse(w, http.StatusOK, ValidateResponse{
		Valid:    len(result.Problems) == 0,
		Problems: problemStrings(result.Problems),
	})
}

// generate renders a posted model leniently; problems are reported in the
// response rather than failing the request.
func (s *Server) generate(w http.ResponseWriter, r *http.Request) (*generate.Result, bool) {
	var m model.Model
	if !decodeBody(w, r, &m) {
		return nil, false
	}

	cfg := *s.config
	cfg.Output.Strict = false
	g := &generate.Generator{Config: &cfg, Model: &m, TypeMap: s.typeMap, Logger: s.logger}
	result, err := g.Generate()
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return result, true
}

func (s *Server) modelData(projectID string) model.ModelData {
	if projectID == "" {
		projectID = s.config.ProjectID
	}
	return model.ModelData{ProjectID: projectID}
}
