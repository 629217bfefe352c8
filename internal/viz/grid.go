package viz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/padsim/internal/filter"
	"github.com/san-kum/padsim/internal/grid"
)

var gridFrame = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#444466"))

// RenderGrid draws probs, indexed by pad id - 1, as a rows x cols heat map.
// Pads listed in top are marked with '*'.
func RenderGrid(g grid.Config, probs []float64, top []int) string {
	peak := 0.0
	for _, p := range probs {
		peak = max(peak, p)
	}

	rows := make([]string, g.Rows)
	for r := 0; r < g.Rows; r++ {
		cells := make([]string, g.Cols)
		for c := 0; c < g.Cols; c++ {
			id := g.ID(r, c)
			p := 0.0
			if id-1 < len(probs) {
				p = probs[id-1]
			}
			heat := 0.0
			if peak > 0 {
				heat = p / peak
			}

			mark := " "
			style := lipgloss.NewStyle().
				Background(HeatColor(heat, CurrentTheme)).
				Foreground(CurrentTheme.Text).
				Padding(0, 1)
			if slices.Contains(top, id) {
				mark = "*"
				style = style.Bold(true)
			}
			cells[c] = style.Render(fmt.Sprintf("%s%2d %.3f", mark, id, p))
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return gridFrame.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderTopPads lists ranked pads with a probability bar each.
func RenderTopPads(top []filter.Pad) string {
	if len(top) == 0 {
		return Subtle.Render("no pad above the probability threshold")
	}
	var s strings.Builder
	for i, p := range top {
		fmt.Fprintf(&s, "%d. %s %s %s\n",
			i+1,
			Subtle.Render(fmt.Sprintf("pad %-2d (r%d c%d)", p.ID, p.Row, p.Col)),
			ProgressBar(p.Probability, 20),
			MetricValue.Render(fmt.Sprintf("%.4f", p.Probability)),
		)
	}
	return strings.TrimRight(s.String(), "\n")
}

// TracePlot charts a series with asciigraph. Fewer than two points cannot be
// plotted and yield an empty string.
func TracePlot(data []float64, caption string, height, width int) string {
	if len(data) < 2 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
