// Package preview is a terminal viewer for generated statements: one
// scrollable page per statement with a tab bar to move between them.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/reloquent/bqddl/internal/generate"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).BorderStyle(lipgloss.DoubleBorder()).BorderBottom(true).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// header and footer lines around the viewport
const chromeHeight = 7

// Model is the bubbletea model of the statement viewer.
type Model struct {
	title      string
	statements []generate.Statement
	problems   []string
	terminator string
	current    int
	viewport   viewport.Model
	width      int
	height     int
	done       bool
}

// New creates a viewer over a generation result.
func New(result *generate.Result, terminator string) Model {
	m := Model{
		title:      "bqddl preview",
		terminator: terminator,
		width:      100,
		height:     24,
	}
	if result != nil {
		m.statements = result.Statements
		for _, p := range result.Problems {
			m.problems = append(m.problems, p.Error())
		}
		if result.ModelName != "" {
			m.title += ": " + result.ModelName
		}
	}
	m.viewport = viewport.New(m.width, m.height-chromeHeight)
	m.load()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 3)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		case "tab", "]":
			if len(m.statements) > 0 {
				m.current = (m.current + 1) % len(m.statements)
				m.load()
			}
			return m, nil
		case "shift+tab", "[":
			if len(m.statements) > 0 {
				m.current = (m.current - 1 + len(m.statements)) % len(m.statements)
				m.load()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// load puts the current statement into the viewport.
func (m *Model) load() {
	if len(m.statements) == 0 {
		m.viewport.SetContent(dimStyle.Render("No statements generated."))
		return
	}
	m.viewport.SetContent(Highlight(m.statements[m.current].SQL + m.terminator))
	m.viewport.GotoTop()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	if n := len(m.problems); n > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  %d validation problem(s), first: %s", n, m.problems[0])))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("  %d/%d  %3.0f%%", m.current+1, len(m.statements), m.viewport.ScrollPercent()*100)
	if len(m.statements) == 0 {
		status = "  0/0"
	}
	b.WriteString(dimStyle.Render(status + "  tab/shift+tab: statement  ↑/↓: scroll  q: quit"))

	return b.String()
}

// tabs renders the statement names, the current one highlighted.
func (m Model) tabs() string {
	names := make([]string, len(m.statements))
	for i, s := range m.statements {
		label := fmt.Sprintf("%s %s", s.Kind, s.Name)
		if i == m.current {
			names[i] = activeTabStyle.Render("[" + label + "]")
		} else {
			names[i] = tabStyle.Render(label)
		}
	}
	return "  " + strings.Join(names, "  ")
}

// Current returns the statement on screen.
func (m Model) Current() (generate.Statement, bool) {
	if len(m.statements) == 0 {
		return generate.Statement{}, false
	}
	return m.statements[m.current], true
}

// Done returns true when the viewer was closed.
func (m Model) Done() bool {
	return m.done
}

// Run opens the viewer full screen until the user quits.
func Run(result *generate.Result, terminator string) error {
	p := tea.NewProgram(New(result, terminator), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running preview: %w", err)
	}
	return nil
}
