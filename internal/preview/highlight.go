package preview

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/reloquent/bqddl/internal/typemap"
)

var (
	keywordStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	stringStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var keywords = map[string]bool{
	"CREATE": true, "OR": true, "REPLACE": true, "TEMPORARY": true,
	"EXTERNAL": true, "TABLE": true, "SCHEMA": true, "IF": true, "NOT": true,
	"EXISTS": true, "NULL": true, "PARTITION": true, "BY": true, "CLUSTER": true,
	"OPTIONS": true, "TIMESTAMP_TRUNC": true, "RANGE_BUCKET": true,
	"GENERATE_ARRAY": true, "_PARTITIONTIME": true,
}

var tokenPattern = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|[A-Za-z_][A-Za-z0-9_]*`)

// tokenClass is how a token is highlighted.
type tokenClass int

const (
	classPlain tokenClass = iota
	classKeyword
	classType
	classString
)

func classify(tok string) tokenClass {
	switch {
	case strings.HasPrefix(tok, `"`):
		return classString
	case typemap.HasType(tok) && tok == strings.ToUpper(tok):
		// DATE( ) partitioning is colored as the type name
		return classType
	case keywords[tok]:
		return classKeyword
	default:
		return classPlain
	}
}

// Highlight colors keywords, type names and string literals in a statement.
// Identifiers are left alone, so lowercase column names never match.
func Highlight(sql string) string {
	return tokenPattern.ReplaceAllStringFunc(sql, func(tok string) string {
		switch classify(tok) {
		case classKeyword:
			return keywordStyle.Render(tok)
		case classType:
			return typeStyle.Render(tok)
		case classString:
			return stringStyle.Render(tok)
		default:
			return tok
		}
	})
}
