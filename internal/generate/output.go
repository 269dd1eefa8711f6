package generate

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentWrites = 8

var fileTemplate = template.Must(template.New("ddl").Parse(`-- Generated by bqddl
{{- if .Model }}
-- Model: {{ .Model }}
{{- end }}
-- Statements: {{ len .Statements }}
{{ range .Statements }}
-- {{ .Kind }}: {{ .Name }} ({{ .Fingerprint }})
{{ .SQL }}{{ $.Terminator }}
{{ end -}}
`))

type fileData struct {
	Model      string
	Terminator string
	Statements []Statement
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// File renders statements as a commented script file.
func (r *Result) File(statements []Statement, term string) (string, error) {
	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, fileData{
		Model:      r.ModelName,
		Terminator: term,
		Statements: statements,
	})
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// FileNames returns the file each statement is written to. Without split
// everything goes to one file named after the model.
func (r *Result) FileNames(split bool) []string {
	if !split {
		name := sanitize(r.ModelName)
		if name == "" {
			name = "schema"
		}
		return []string{name + ".sql"}
	}
	names := make([]string, len(r.Statements))
	for i, s := range r.Statements {
		names[i] = fmt.Sprintf("%03d_%s_%s.sql", i+1, s.Kind, sanitize(s.Name))
	}
	return names
}

// WriteFiles writes the script into dir and returns the paths written.
// Split files are written concurrently.
func (r *Result) WriteFiles(ctx context.Context, dir string, split bool, term string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	names := r.FileNames(split)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}

	if !split {
		content, err := r.File(r.Statements, term)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(paths[0], []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", paths[0], err)
		}
		return paths, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)
	for i := range r.Statements {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := r.File(r.Statements[i:i+1], term)
			if err != nil {
				return err
			}
			if err := os.WriteFile(paths[i], []byte(content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", paths[i], err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func sanitize(name string) string {
	return strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "_")
}
