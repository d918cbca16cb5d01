package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/taskplan/pkg/pipeline"
	"github.com/matzehuels/taskplan/pkg/plan"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StrategyPickerModel - Interactive strategy selection
// =============================================================================

// StrategyPickerModel is the bubbletea model for choosing a strategy. Each
// row shows the strategy's complexity and its estimated cost for the task
// set about to be solved.
type StrategyPickerModel struct {
	Estimates []pipeline.Estimate
	Tasks     int
	Cursor    int
	Selected  *pipeline.Estimate
}

// NewStrategyPickerModel creates a picker for n tasks under c.
func NewStrategyPickerModel(n int, c plan.Constraints) StrategyPickerModel {
	return StrategyPickerModel{Estimates: pipeline.Estimates(n, c), Tasks: n}
}

func (m StrategyPickerModel) Init() tea.Cmd {
	return nil
}

func (m StrategyPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Estimates)-1 {
				m.Cursor++
			}
		case "enter":
			e := m.Estimates[m.Cursor]
			m.Selected = &e
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m StrategyPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Strategy"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d tasks  ↑/↓ navigate  ⏎ select  q quit", m.Tasks)))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Estimates))
	for i, e := range m.Estimates {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, e.Strategy, e.Complexity, formatOps(e.Cost)})
	}

	t := newTable("", "Strategy", "Complexity", "Est. ops").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Estimates))))

	return b.String()
}

// pickStrategy runs the picker and returns the chosen strategy name, or ""
// when the user quit without choosing.
func pickStrategy(n int, c plan.Constraints) (string, error) {
	p := tea.NewProgram(NewStrategyPickerModel(n, c))
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}
	fm, ok := finalModel.(StrategyPickerModel)
	if !ok || fm.Selected == nil {
		return "", nil
	}
	return fm.Selected.Strategy, nil
}
