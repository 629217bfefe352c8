package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/padsim/internal/grid"
)

// NormTolerance is how far a distribution total may drift from 1 before a
// step is rejected.
const NormTolerance = 1e-9

type Phase int

const (
	PhaseConstructed Phase = iota
	PhaseStepReady
	PhaseStepComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseConstructed:
		return "constructed"
	case PhaseStepReady:
		return "step-ready"
	case PhaseStepComplete:
		return "step-complete"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type SimConfig struct {
	Grid     grid.Config   `yaml:"grid" json:"grid"`
	Geometry grid.Geometry `yaml:"geometry" json:"geometry"`
	Params   Params        `yaml:"filter" json:"filter"`
}

func DefaultSimConfig() SimConfig {
	return SimConfig{
		Grid:     grid.DefaultConfig(),
		Geometry: grid.DefaultGeometry(),
		Params:   DefaultParams(),
	}
}

func (c SimConfig) Validate() error {
	return errors.Join(c.Grid.Validate(), c.Geometry.Validate(), c.Params.Validate())
}

// Simulation runs the filter for one subject. Successive calls to RunStep
// continue from the previous posterior; call Reset to start again from a
// calibration distribution.
type Simulation struct {
	cfg       SimConfig
	subject   string
	corrector Corrector
	initial   []float64
	state     State
	phase     Phase
}

// New validates the configuration and the initial probabilities, loads the
// subject's correction table and returns a simulation ready to step.
func New(cfg SimConfig, subject string, initial []float64, corrector Corrector) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if corrector == nil {
		return nil, fmt.Errorf("subject %s: %w", subject, ErrNotReady)
	}

	st, err := NewState(cfg.Grid, cfg.Geometry).WithInitial(initial)
	if err != nil {
		return nil, fmt.Errorf("subject %s initial probabilities: %w", subject, err)
	}
	if err := corrector.LoadTable(subject); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:       cfg,
		subject:   subject,
		corrector: corrector,
		initial:   append([]float64(nil), initial...),
		state:     st,
		phase:     PhaseConstructed,
	}
	return s, nil
}

func (s *Simulation) Subject() string   { return s.subject }
func (s *Simulation) Config() SimConfig { return s.cfg }
func (s *Simulation) Phase() Phase      { return s.phase }

// State returns a snapshot of the current belief.
func (s *Simulation) State() State { return s.state.Clone() }

func (s *Simulation) Initial() []float64 {
	return append([]float64(nil), s.initial...)
}

// Reset replaces the calibration distribution and restarts the belief from it.
func (s *Simulation) Reset(initial []float64) error {
	st, err := s.state.WithInitial(initial)
	if err != nil {
		return fmt.Errorf("subject %s reset: %w", s.subject, err)
	}
	s.initial = append([]float64(nil), initial...)
	s.state = st
	s.phase = PhaseStepReady
	return nil
}

// ResetToInitial restarts the belief from the last calibration distribution.
func (s *Simulation) ResetToInitial() error {
	return s.Reset(s.initial)
}

// RunStep rotates by angle degrees, predicts, corrects and selects. On error
// the belief is left as it was before the call.
func (s *Simulation) RunStep(angle float64) (*SimulationResult, error) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return nil, &StepError{Subject: s.subject, Angle: angle, Stage: "displace", Err: ErrInvalidAngle}
	}

	predicted := Predict(Displace(s.state, angle), s.cfg.Params)
	if err := CheckNormalized(predicted, NormTolerance); err != nil {
		return nil, &StepError{Subject: s.subject, Angle: angle, Stage: "predict", Err: err}
	}

	corrected, err := s.corrector.ApplyCorrection(predicted, angle)
	if err != nil {
		return nil, &StepError{Subject: s.subject, Angle: angle, Stage: "correct", Err: err}
	}
	if err := CheckNormalized(corrected, NormTolerance); err != nil {
		return nil, &StepError{Subject: s.subject, Angle: angle, Stage: "correct", Err: err}
	}

	top := Select(corrected, s.cfg.Params.ProbMin, s.cfg.Params.TopN)

	s.state = corrected
	s.phase = PhaseStepComplete
	return newResult(s.subject, angle, predicted, corrected, top), nil
}
