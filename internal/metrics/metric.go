package metrics

import (
	"github.com/san-kum/padsim/internal/filter"
)

// Metric accumulates one scalar over a series of filter steps.
type Metric interface {
	Name() string
	Observe(r *filter.SimulationResult)
	Value() float64
	Reset()
}

// Defaults returns a fresh set of the belief metrics reported for sweeps.
func Defaults() []Metric {
	return []Metric{NewEntropy(), NewPeak(), NewEffectivePads(), NewMassShift()}
}

// Summarize computes every default metric for a single result.
func Summarize(r *filter.SimulationResult) map[string]float64 {
	out := make(map[string]float64, 4)
	for _, m := range Defaults() {
		m.Observe(r)
		out[m.Name()] = m.Value()
	}
	return out
}

// mean is the running average shared by the belief metrics.
type mean struct {
	sum     float64
	samples int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.samples++
}

func (m *mean) value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *mean) reset() {
	m.sum = 0
	m.samples = 0
}
