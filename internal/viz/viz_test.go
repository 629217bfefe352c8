package viz

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/padsim/internal/filter"
	"github.com/san-kum/padsim/internal/grid"
)

func TestHeatColor(t *testing.T) {
	theme := Theme{Cold: "#000000", Hot: "#ff8000"}
	tests := []struct {
		t    float64
		want string
	}{
		{0, "#000000"},
		{1, "#ff8000"},
		{0.5, "#7f4000"},
		{-1, "#000000"},
		{2, "#ff8000"},
	}
	for _, tt := range tests {
		if got := string(HeatColor(tt.t, theme)); got != tt.want {
			t.Errorf("HeatColor(%v) = %s, want %s", tt.t, got, tt.want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	names := ThemeNames()
	if got := NextTheme(names[len(names)-1]); got != names[0] {
		t.Errorf("expected wrap to %s, got %s", names[0], got)
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Errorf("expected %s for unknown theme, got %s", names[0], got)
	}
	if GetTheme("ocean").Name != "ocean" || GetTheme("nope").Name != ThemeCyberpunk.Name {
		t.Error("GetTheme lookup failed")
	}
}

func TestRenderGridShowsEveryPad(t *testing.T) {
	g := grid.DefaultConfig()
	probs := make([]float64, g.PadCount())
	for i := range probs {
		probs[i] = float64(i+1) / 120
	}

	out := RenderGrid(g, probs, []int{15})
	for id := 1; id < g.PadCount(); id++ {
		if cell := fmt.Sprintf(" %2d %.3f", id, probs[id-1]); !strings.Contains(out, cell) {
			t.Errorf("grid missing cell %q", cell)
		}
	}
	if !strings.Contains(out, "*15 0.125") {
		t.Error("top pad should be marked")
	}
	if lines := strings.Count(out, "\n") + 1; lines != g.Rows+2 {
		t.Errorf("expected %d lines (rows plus border), got %d", g.Rows+2, lines)
	}
}

func TestRenderTopPads(t *testing.T) {
	out := RenderTopPads([]filter.Pad{{ID: 8, Row: 2, Col: 1, Probability: 0.5}})
	if !strings.Contains(out, "pad 8") || !strings.Contains(out, "0.5000") {
		t.Errorf("unexpected top pad rendering: %q", out)
	}
	if !strings.Contains(RenderTopPads(nil), "no pad") {
		t.Error("expected placeholder for empty selection")
	}
}

func TestTracePlot(t *testing.T) {
	if TracePlot([]float64{1}, "x", 5, 20) != "" {
		t.Error("single point should not plot")
	}
	out := TracePlot([]float64{0.1, 0.3, 0.2}, "pad 8", 5, 20)
	if !strings.Contains(out, "pad 8") {
		t.Error("caption missing")
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart([]float64{0, 1}, 2); got != "▁█" {
		t.Errorf("got %q", got)
	}
	if got := SparklineChart(nil, 3); got != "───" {
		t.Errorf("got %q", got)
	}
}

func newTestStepper(t *testing.T, cumulative bool) Stepper {
	t.Helper()
	cfg := filter.DefaultSimConfig()
	n := cfg.Grid.PadCount()
	initial := make([]float64, n)
	initial[7] = 1
	sim, err := filter.New(cfg, "Subject1", initial, filter.NewTableCorrector(filter.FixedLoader{}, n))
	if err != nil {
		t.Fatal(err)
	}
	return NewStepper(sim, []float64{30, 60, 90}, cumulative)
}

func press(m Stepper, key string) (Stepper, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Stepper), cmd
}

func TestStepperForwardAndBack(t *testing.T) {
	m := newTestStepper(t, false)
	if m.Current() != nil {
		t.Fatal("no result before the first step")
	}

	m, _ = press(m, "right")
	m, _ = press(m, "right")
	if len(m.History()) != 2 || m.Current().Angle != 60 {
		t.Fatalf("expected two steps ending at 60°, got %d", len(m.History()))
	}

	m, _ = press(m, "left")
	if m.Current().Angle != 30 {
		t.Errorf("expected to revisit 30°, got %v", m.Current().Angle)
	}

	m, _ = press(m, "right")
	if len(m.History()) != 2 || m.Current().Angle != 60 {
		t.Error("moving forward through history must not recompute")
	}

	m, _ = press(m, "right")
	m, _ = press(m, "right")
	if len(m.History()) != 3 {
		t.Errorf("stepping past the last angle should stop, got %d", len(m.History()))
	}
	if m.Err() != nil {
		t.Errorf("unexpected error: %v", m.Err())
	}
}

func TestStepperResetAndMode(t *testing.T) {
	m := newTestStepper(t, false)
	m, _ = press(m, "right")

	m, _ = press(m, "r")
	if m.Current() != nil || len(m.History()) != 0 {
		t.Error("reset should clear history")
	}

	m, _ = press(m, "c")
	if !m.Cumulative() {
		t.Error("c should toggle cumulative mode")
	}
}

func TestStepperQuit(t *testing.T) {
	m := newTestStepper(t, true)
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestStepperView(t *testing.T) {
	m := newTestStepper(t, false)
	if !strings.Contains(m.View(), "initial belief") {
		t.Error("view should show the initial belief before stepping")
	}

	m, _ = press(m, "right")
	view := m.View()
	for _, want := range []string{"Subject1", "30.0°", "TOP PADS", "entropy"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
