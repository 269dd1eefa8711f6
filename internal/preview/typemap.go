package preview

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reloquent/bqddl/internal/model"
	"github.com/reloquent/bqddl/internal/typemap"
)

var (
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

// TypeMapModel is the bubbletea model of the logical type mapping editor.
type TypeMapModel struct {
	typeMap   *typemap.TypeMap
	types     []string // logical names shown, sorted
	cursor    int
	done      bool
	cancelled bool
	width     int
	height    int
}

// NewTypeMapModel creates an editor over the logical types used by m, or
// over every known logical type when m is nil.
func NewTypeMapModel(m *model.Model, existing *typemap.TypeMap) TypeMapModel {
	tm := existing
	if tm == nil {
		tm = typemap.New()
	}

	var types []string
	if m == nil {
		types = tm.SortedTypes()
	} else {
		set := make(map[string]bool)
		for _, c := range m.Containers {
			for _, e := range c.Entities {
				collectTypes(e.Properties, set)
			}
		}
		for t := range set {
			types = append(types, t)
		}
		sort.Strings(types)
	}

	return TypeMapModel{
		typeMap: tm,
		types:   types,
		width:   100,
		height:  24,
	}
}

func collectTypes(props []model.Property, set map[string]bool) {
	for _, p := range props {
		if name := strings.ToLower(strings.TrimSpace(p.Type)); name != "" {
			set[name] = true
		}
		collectTypes(p.Properties, set)
		collectTypes(p.Items, set)
	}
}

func (m TypeMapModel) Init() tea.Cmd {
	return nil
}

func (m TypeMapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case "enter", "f":
			m.done = true
			return m, tea.Quit
		}
		if len(m.types) == 0 {
			return m, nil
		}

		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.types)-1 {
				m.cursor++
			}

		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}

		case "e": // cycle through scalar types
			logical := m.types[m.cursor]
			current := m.typeMap.Resolve(logical)
			if !typemap.IsContainer(current) {
				m.typeMap.Override(logical, nextScalarType(current))
			}

		case "d":
			m.typeMap.RestoreDefault(m.types[m.cursor])
		}
	}

	return m, nil
}

func (m TypeMapModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Type Mapping"))
	b.WriteString("\n\n")

	if len(m.types) == 0 {
		b.WriteString("  No types found in the model.\n\n")
		b.WriteString(dimStyle.Render("  Press enter to confirm • q to cancel\n"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  %-24s %-14s %s\n", "Logical Type", "BigQuery Type", "Status"))
	b.WriteString("  " + strings.Repeat("─", 52) + "\n")

	maxVisible := max(m.height-10, 5)
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.types))

	for i := start; i < end; i++ {
		logical := m.types[i]
		resolved := m.typeMap.Resolve(logical)

		cursor := "  "
		if i == m.cursor {
			cursor = highlightStyle.Render("> ")
		}

		var status string
		switch {
		case m.typeMap.IsOverridden(logical):
			status = successStyle.Render("override ★")
		case !typemap.HasType(string(resolved)):
			status = warnStyle.Render("unknown")
		default:
			status = dimStyle.Render("default")
		}

		b.WriteString(fmt.Sprintf("%s%-24s %-14s %s\n",
			cursor, logical, strings.ToUpper(string(resolved)), status))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  e edit • d restore default • enter confirm • q cancel\n"))

	return b.String()
}

// Result returns the edited type map, or nil when cancelled.
func (m TypeMapModel) Result() *typemap.TypeMap {
	if m.cancelled {
		return nil
	}
	return m.typeMap
}

// Done returns true if the editor has finished.
func (m TypeMapModel) Done() bool {
	return m.done
}

// Cancelled returns true if the user cancelled.
func (m TypeMapModel) Cancelled() bool {
	return m.done && m.cancelled
}

// nextScalarType returns the scalar type after current in AllTypes order,
// skipping containers.
func nextScalarType(current typemap.Type) typemap.Type {
	types := make([]typemap.Type, 0, len(typemap.AllTypes))
	for _, t := range typemap.AllTypes {
		if !typemap.IsContainer(t) {
			types = append(types, t)
		}
	}
	for i, t := range types {
		if t == current {
			return types[(i+1)%len(types)]
		}
	}
	return types[0]
}

// RunTypeMapEditor opens the editor and writes the confirmed mapping to
// path. It reports whether the mapping was saved.
func RunTypeMapEditor(m *model.Model, tm *typemap.TypeMap, path string) (bool, error) {
	p := tea.NewProgram(NewTypeMapModel(m, tm), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("running type mapping editor: %w", err)
	}

	result := final.(TypeMapModel).Result()
	if result == nil {
		return false, nil
	}
	if err := result.WriteYAML(path); err != nil {
		return false, fmt.Errorf("saving type mapping: %w", err)
	}
	return true, nil
}
