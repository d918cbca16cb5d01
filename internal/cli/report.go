package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/taskplan/pkg/pipeline"
	"github.com/matzehuels/taskplan/pkg/plan"
)

// headerRow is the row index lipgloss/table passes to StyleFunc for headers.
const headerRow = -1

var (
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

// newTable returns a rounded table with the shared header and border styles.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...)
}

// renderTasks renders tasks as a table with one column per category.
func renderTasks(tasks []plan.Task, cats plan.Categories) string {
	headers := []string{"ID", "Name", "Cost", "Hours", "Value"}
	headers = append(headers, cats.Strings()...)

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		row := []string{t.ID, t.Name, strconv.Itoa(t.Cost), strconv.Itoa(t.Hours), strconv.Itoa(t.Value)}
		for _, c := range cats {
			row = append(row, amountCell(t.Categories.Get(c)))
		}
		rows = append(rows, row)
	}

	return newTable(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader.Padding(0, 1)
			}
			return styleCell
		}).
		Render()
}

// renderCoverage renders per-category totals against their minima, e.g.
// "FE 2/2 ✓  QA 0/1 ✗". Categories without a minimum show their total only.
func renderCoverage(t plan.Totals, c plan.Constraints, cats plan.Categories) string {
	parts := make([]string, 0, len(cats))
	for _, cat := range cats {
		got := t.Categories.Get(cat)
		want, ok := c.MinCategoryTotals[cat]
		if !ok || want == 0 {
			parts = append(parts, fmt.Sprintf("%s %d", cat, got))
			continue
		}
		mark := styleIconSuccess.Render(iconSuccess)
		if got < want {
			mark = styleIconError.Render(iconError)
		}
		parts = append(parts, fmt.Sprintf("%s %d/%d %s", cat, got, want, mark))
	}
	return strings.Join(parts, "  ")
}

// renderMinima renders the non-zero category minima, e.g. "D 1  FE 2".
func renderMinima(c plan.Constraints) string {
	var parts []string
	for _, cat := range c.MinCategoryTotals.Keys() {
		if v := c.MinCategoryTotals[cat]; v > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", cat, v))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "  ")
}

// printResult prints a solve result with its summary, selected tasks and
// category coverage.
func printResult(res plan.Result, c plan.Constraints, cats plan.Categories) {
	strategy := res.Info.Strategy
	if res.Info.IsFallback() {
		strategy = styleFallback.Render(fmt.Sprintf("%s %s %s", res.Info.FallbackFrom, iconArrow, res.Info.Strategy))
	}

	fmt.Fprintln(stdout, StyleTitle.Render("Selection"))
	printKeyValue("Strategy", strategy)
	printKeyValue("Complexity", res.Info.Complexity)
	printKeyValue("Value", StyleNumber.Render(strconv.Itoa(res.Totals.Value)))
	printKeyValue("Cost", fmt.Sprintf("%d / %d", res.Totals.Cost, c.MaxCost))
	printKeyValue("Hours", fmt.Sprintf("%d / %d", res.Totals.Hours, c.MaxHours))
	printKeyValue("Coverage", renderCoverage(res.Totals, c, cats))
	if res.Info.Note != "" {
		printWarning("%s", res.Info.Note)
	}

	if res.IsEmpty() {
		printDetail("No tasks selected")
		return
	}
	fmt.Fprintln(stdout, renderTasks(res.Selected, cats))
}

// renderComparison renders one row per strategy outcome. The best value is
// highlighted.
func renderComparison(outcomes []pipeline.Outcome) string {
	best := 0
	for _, o := range outcomes {
		best = max(best, o.Result.Totals.Value)
	}

	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		r := o.Result
		rows = append(rows, []string{
			o.Strategy,
			r.Info.Complexity,
			strconv.Itoa(r.Totals.Value),
			strconv.Itoa(r.Totals.Cost),
			strconv.Itoa(r.Totals.Hours),
			strings.Join(r.IDs(), ","),
			o.Duration.String(),
			formatOps(o.Estimate),
			r.Info.Note,
		})
	}

	return newTable("Strategy", "Complexity", "Value", "Cost", "Hours", "Tasks", "Time", "Est. ops", "Note").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader.Padding(0, 1)
			}
			if best > 0 && row < len(outcomes) && outcomes[row].Result.Totals.Value == best {
				return styleBest.Padding(0, 1)
			}
			return styleCell
		}).
		Render()
}

// renderEstimates renders the theoretical cost of each strategy.
func renderEstimates(estimates []pipeline.Estimate) string {
	rows := make([][]string, 0, len(estimates))
	for _, e := range estimates {
		rows = append(rows, []string{e.Strategy, e.Slug, e.Complexity, formatOps(e.Cost)})
	}
	return newTable("Strategy", "Slug", "Complexity", "Est. ops").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader.Padding(0, 1)
			}
			return styleCell
		}).
		Render()
}

// formatOps prints small counts exactly and large ones in scientific notation.
func formatOps(v float64) string {
	if v < 1e6 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'e', 2, 64)
}

func amountCell(v int) string {
	if v == 0 {
		return "·"
	}
	return strconv.Itoa(v)
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
