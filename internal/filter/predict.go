package filter

import (
	"fmt"
	"math"
)

const (
	DefaultMovementThreshold = 1.0
	DefaultProbMin           = 0.05
	DefaultTopN              = 3
	DefaultFloor             = 0.0001
)

// Params controls the transition kernel and the selection stage.
type Params struct {
	// MovementThreshold is the radius, in cm, around a displaced pad inside
	// which other pads receive a share of its mass.
	MovementThreshold float64 `yaml:"movement_threshold" json:"movement_threshold"`
	// ProbMin is the minimum posterior probability a pad needs to be ranked.
	ProbMin float64 `yaml:"prob_min" json:"prob_min"`
	TopN    int     `yaml:"top_n" json:"top_n"`
	// Floor replaces exact zeros after prediction so no pad becomes absorbing.
	Floor float64 `yaml:"floor" json:"floor"`
}

func DefaultParams() Params {
	return Params{
		MovementThreshold: DefaultMovementThreshold,
		ProbMin:           DefaultProbMin,
		TopN:              DefaultTopN,
		Floor:             DefaultFloor,
	}
}

func (p Params) Validate() error {
	if p.MovementThreshold < 0 || math.IsNaN(p.MovementThreshold) {
		return fmt.Errorf("%w: movement threshold must be non-negative, got %f", ErrInvalidParams, p.MovementThreshold)
	}
	if p.ProbMin < 0 || p.ProbMin > 1 || math.IsNaN(p.ProbMin) {
		return fmt.Errorf("%w: prob min must be within [0,1], got %f", ErrInvalidParams, p.ProbMin)
	}
	if p.TopN < 0 {
		return fmt.Errorf("%w: top n must be non-negative, got %d", ErrInvalidParams, p.TopN)
	}
	if p.Floor < 0 || p.Floor >= 1 || math.IsNaN(p.Floor) {
		return fmt.Errorf("%w: floor must be within [0,1), got %f", ErrInvalidParams, p.Floor)
	}
	return nil
}

// Region returns the ids of every pad whose nominal layout position lies
// within threshold of src's displaced position. Displacement only moves the
// point along x. An empty neighbourhood falls back to src itself.
func Region(s State, src Pad, threshold float64) []int {
	padX, padY := s.geom.Layout(s.grid, src.ID)
	newX := padX + src.Displacement
	newY := padY

	var region []int
	for _, q := range s.pads {
		qx, qy := s.geom.Layout(s.grid, q.ID)
		if math.Hypot(qx-newX, qy-newY) <= threshold {
			region = append(region, q.ID)
		}
	}
	if len(region) == 0 {
		region = append(region, src.ID)
	}
	return region
}

// Predict spreads every pad's current probability uniformly over its region,
// floors exact zeros and renormalizes. A non-positive total falls back to a
// uniform distribution.
func Predict(s State, p Params) State {
	pred := make([]float64, len(s.pads))
	for _, src := range s.pads {
		region := Region(s, src, p.MovementThreshold)
		share := src.Probability / float64(len(region))
		for _, id := range region {
			pred[id-1] += share
		}
	}

	for i := range pred {
		if pred[i] == 0 {
			pred[i] = p.Floor
		}
	}
	normalize(pred)

	next := s.Clone()
	for i := range next.pads {
		next.pads[i].Probability = pred[i]
	}
	return next
}
