package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/padsim/internal/filter"
	"github.com/san-kum/padsim/internal/metrics"
)

var (
	panelStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(48)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// Stepper walks one simulation through a fixed list of angles. Results are
// kept so earlier steps can be revisited without recomputing them.
type Stepper struct {
	sim        *filter.Simulation
	angles     []float64
	history    []*filter.SimulationResult
	cursor     int
	cumulative bool
	err        error
}

// NewStepper returns a stepper positioned before the first angle. With
// cumulative set the belief carries over between angles; otherwise every
// angle starts from the calibration distribution.
func NewStepper(sim *filter.Simulation, angles []float64, cumulative bool) Stepper {
	return Stepper{
		sim:        sim,
		angles:     angles,
		cursor:     -1,
		cumulative: cumulative,
	}
}

func (m Stepper) Init() tea.Cmd { return nil }

func (m Stepper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Stepper) handleKey(msg tea.KeyMsg) (Stepper, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", "n", " ":
		m.forward()
	case "left", "h", "p":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.reset()
	case "c":
		m.cumulative = !m.cumulative
		m.reset()
	case "t":
		SetTheme(NextTheme(CurrentTheme.Name))
	}
	return m, nil
}

func (m *Stepper) forward() {
	if m.cursor < len(m.history)-1 {
		m.cursor++
		return
	}
	next := len(m.history)
	if next >= len(m.angles) {
		return
	}

	if !m.cumulative {
		if err := m.sim.ResetToInitial(); err != nil {
			m.err = err
			return
		}
	}
	res, err := m.sim.RunStep(m.angles[next])
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.history = append(m.history, res)
	m.cursor = next
}

func (m *Stepper) reset() {
	m.err = m.sim.ResetToInitial()
	m.history = nil
	m.cursor = -1
}

// Current returns the result under the cursor, or nil before the first step.
func (m Stepper) Current() *filter.SimulationResult {
	if m.cursor < 0 {
		return nil
	}
	return m.history[m.cursor]
}

func (m Stepper) History() []*filter.SimulationResult { return m.history }
func (m Stepper) Cumulative() bool                    { return m.cumulative }
func (m Stepper) Err() error                          { return m.err }

func (m Stepper) View() string {
	cfg := m.sim.Config()
	cur := m.Current()

	var probs []float64
	var top []int
	title := fmt.Sprintf("%s  ·  initial belief", m.sim.Subject())
	if cur != nil {
		probs = cur.Corrected()
		top = cur.TopIDs()
		title = fmt.Sprintf("%s  ·  %.1f°  (%d/%d)", m.sim.Subject(), cur.Angle, m.cursor+1, len(m.angles))
	} else {
		probs = m.sim.Initial()
	}

	left := HeaderStyle.Render(title) + "\n\n" + RenderGrid(cfg.Grid, probs, top)
	if m.err != nil {
		left += "\n\n" + errorStyle.Render(m.err.Error())
	}

	var s strings.Builder
	mode := "reset each angle"
	if m.cumulative {
		mode = "cumulative"
	}
	s.WriteString(MetricLabel.Render("Mode") + MetricValue.Render(mode) + "\n")
	s.WriteString(MetricLabel.Render("Phase") + MetricValue.Render(m.sim.Phase().String()) + "\n")
	s.WriteString(MetricLabel.Render("Threshold") + MetricValue.Render(fmt.Sprintf("%.2f cm", cfg.Params.MovementThreshold)) + "\n\n")

	if cur != nil {
		s.WriteString("TOP PADS\n")
		s.WriteString(RenderTopPads(cur.TopPads) + "\n\n")
		summary := metrics.Summarize(cur)
		for _, name := range []string{"entropy", "peak", "effective_pads", "mass_shift"} {
			s.WriteString(MetricLabel.Render(name) + MetricValue.Render(fmt.Sprintf("%.4f", summary[name])) + "\n")
		}
	}

	if len(m.history) > 1 {
		entropy := make([]float64, m.cursor+1)
		for i := range entropy {
			entropy[i] = metrics.Summarize(m.history[i])["entropy"]
		}
		s.WriteString("\n" + MetricLabel.Render("Entropy") + SparklineChart(entropy, 24) + "\n")
	}

	s.WriteString("\n" + KeyHint.Render("←/→ step  C mode  R reset  T theme  Q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), statsStyle.Render(s.String()))
}
