package ddl

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/reloquent/bqddl/internal/schema"
)

const indentUnit = "  "

// indent prefixes every non-empty line of s with one indentation level.
func indent(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indentUnit + line
		}
	}
	return strings.Join(lines, "\n")
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// quote renders s as a double-quoted string literal.
func quote(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}

// Timestamp formats epoch milliseconds as `YYYY-MM-DD HH:MM:SS UTC`,
// independent of the local time zone.
func Timestamp(unixMillis int64) string {
	return time.UnixMilli(unixMillis).UTC().Format("2006-01-02 15:04:05") + " UTC"
}

// Labels renders labels as the element list of an array-of-struct literal,
// one `("key", "value")` pair per line.
func Labels(labels []schema.Label) string {
	pairs := make([]string, 0, len(labels))
	for _, l := range labels {
		pairs = append(pairs, "("+quote(l.Key)+", "+quote(l.Value)+")")
	}
	return strings.Join(pairs, ",\n")
}

// FullName qualifies a name as project.dataset.table. Empty parts are
// skipped. Names with a project are wrapped in backticks since project IDs
// may contain dashes.
func FullName(projectID string, names ...string) string {
	parts := make([]string, 0, len(names)+1)
	if projectID = strings.TrimSpace(projectID); projectID != "" {
		parts = append(parts, projectID)
	}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			parts = append(parts, n)
		}
	}

	name := strings.Join(parts, ".")
	if projectID != "" {
		return "`" + name + "`"
	}
	return name
}

// formatNumber renders a number the way the design tool prints it: no
// trailing zeros, no exponent for ordinary values.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseNumber parses user-entered numeric text. NaN and infinities do not
// count as numbers.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
