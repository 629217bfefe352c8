package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/padsim/internal/filter"
)

// Entropy is the mean Shannon entropy, in nats, of the corrected belief.
type Entropy struct {
	name string
	mean
}

func NewEntropy() *Entropy {
	return &Entropy{name: "entropy"}
}

func (e *Entropy) Name() string { return e.name }

func (e *Entropy) Observe(r *filter.SimulationResult) {
	if len(r.Steps) == 0 {
		return
	}
	e.add(stat.Entropy(r.Corrected()))
}

func (e *Entropy) Value() float64 { return e.value() }
func (e *Entropy) Reset()         { e.reset() }

// Peak is the mean of the largest corrected pad probability.
type Peak struct {
	name string
	mean
}

func NewPeak() *Peak {
	return &Peak{name: "peak"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(r *filter.SimulationResult) {
	if len(r.Steps) == 0 {
		return
	}
	p.add(floats.Max(r.Corrected()))
}

func (p *Peak) Value() float64 { return p.value() }
func (p *Peak) Reset()         { p.reset() }

// EffectivePads is the inverse participation ratio 1/Σp², i.e. how many
// equally likely pads the belief is spread over.
type EffectivePads struct {
	name string
	mean
}

func NewEffectivePads() *EffectivePads {
	return &EffectivePads{name: "effective_pads"}
}

func (e *EffectivePads) Name() string { return e.name }

func (e *EffectivePads) Observe(r *filter.SimulationResult) {
	probs := r.Corrected()
	sq := floats.Dot(probs, probs)
	if sq == 0 {
		return
	}
	e.add(1 / sq)
}

func (e *EffectivePads) Value() float64 { return e.value() }
func (e *EffectivePads) Reset()         { e.reset() }

// MassShift is the mean total variation distance between the initial and
// the corrected distribution of a step.
type MassShift struct {
	name string
	mean
}

func NewMassShift() *MassShift {
	return &MassShift{name: "mass_shift"}
}

func (m *MassShift) Name() string { return m.name }

func (m *MassShift) Observe(r *filter.SimulationResult) {
	if len(r.Steps) == 0 {
		return
	}
	m.add(floats.Distance(r.Corrected(), r.Initial(), 1) / 2)
}

func (m *MassShift) Value() float64 { return m.value() }
func (m *MassShift) Reset()         { m.reset() }
