package filter

import (
	"fmt"
	"math"

	"github.com/san-kum/padsim/internal/grid"
	"gonum.org/v1/gonum/floats"
)

// Pad is one electrode position. ID, Row, Col and Radius are fixed by the
// grid; the remaining fields evolve from step to step.
type Pad struct {
	ID           int     `json:"id"`
	Row          int     `json:"row"`
	Col          int     `json:"col"`
	Radius       float64 `json:"radius"`
	Displacement float64 `json:"displacement"`
	Probability  float64 `json:"probability"`
	InitialProb  float64 `json:"initial_prob"`
}

// State is the belief over every pad of a grid, stored in pad id order.
type State struct {
	grid grid.Config
	geom grid.Geometry
	pads []Pad
}

// NewState builds a zero-probability state with geometry derived from the grid.
func NewState(g grid.Config, geom grid.Geometry) State {
	pads := make([]Pad, g.PadCount())
	for i := range pads {
		id := i + 1
		row, col := g.Position(id)
		pads[i] = Pad{
			ID:     id,
			Row:    row,
			Col:    col,
			Radius: geom.Radius(g, col),
		}
	}
	return State{grid: g, geom: geom, pads: pads}
}

func (s State) Grid() grid.Config       { return s.grid }
func (s State) Geometry() grid.Geometry { return s.geom }
func (s State) Len() int                { return len(s.pads) }

func (s State) Clone() State {
	c := s
	c.pads = make([]Pad, len(s.pads))
	copy(c.pads, s.pads)
	return c
}

// Pads returns a copy of the pads in id order.
func (s State) Pads() []Pad {
	out := make([]Pad, len(s.pads))
	copy(out, s.pads)
	return out
}

// Pad looks up a pad by its 1-based id.
func (s State) Pad(id int) (Pad, bool) {
	if id < 1 || id > len(s.pads) {
		return Pad{}, false
	}
	return s.pads[id-1], true
}

func (s State) Probabilities() []float64 {
	out := make([]float64, len(s.pads))
	for i, p := range s.pads {
		out[i] = p.Probability
	}
	return out
}

func (s State) Sum() float64 {
	return floats.Sum(s.Probabilities())
}

// WithProbabilities returns a copy of s whose probabilities are replaced by
// probs, indexed by id-1.
func (s State) WithProbabilities(probs []float64) (State, error) {
	if len(probs) != len(s.pads) {
		return State{}, fmt.Errorf("%w: got %d values for %d pads", ErrTableShape, len(probs), len(s.pads))
	}
	next := s.Clone()
	for i := range next.pads {
		next.pads[i].Probability = probs[i]
	}
	return next, nil
}

// WithInitial resets both the calibration probability and the current
// belief of every pad, and clears displacement.
func (s State) WithInitial(initial []float64) (State, error) {
	if err := ValidateProbabilities(initial, len(s.pads)); err != nil {
		return State{}, err
	}
	next := s.Clone()
	for i := range next.pads {
		next.pads[i].InitialProb = initial[i]
		next.pads[i].Probability = initial[i]
		next.pads[i].Displacement = 0
	}
	return next, nil
}

// ValidateProbabilities checks that probs holds exactly n finite values in [0,1].
func ValidateProbabilities(probs []float64, n int) error {
	if len(probs) != n {
		return fmt.Errorf("%w: got %d values for %d pads", ErrTableShape, len(probs), n)
	}
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
			return fmt.Errorf("%w: pad %d has %v", ErrInvalidProbability, i+1, p)
		}
	}
	return nil
}

// CheckNormalized returns ErrNotNormalized when the total probability of s is
// further than tol from 1.
func CheckNormalized(s State, tol float64) error {
	sum := s.Sum()
	if math.IsNaN(sum) || math.Abs(sum-1) > tol {
		return fmt.Errorf("%w: sum=%.12f", ErrNotNormalized, sum)
	}
	return nil
}

// normalize rescales w to sum to 1, or fills it with 1/len(w) when the
// total is not positive.
func normalize(w []float64) {
	sum := floats.Sum(w)
	if sum > 0 {
		for i := range w {
			w[i] /= sum
		}
		return
	}
	u := 1.0 / float64(len(w))
	for i := range w {
		w[i] = u
	}
}
