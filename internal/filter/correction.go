package filter

import (
	"fmt"
	"math"
)

// Likelihood gives the sensitivity weight of a pad at a rotation angle.
type Likelihood interface {
	Likelihood(padID int, angle float64) (float64, error)
}

// TableLoader fetches the correction table of a subject for a grid of pads.
// The table format belongs to the calibration pipeline.
type TableLoader interface {
	LoadTable(subject string, pads int) (Likelihood, error)
}

// Corrector is the measurement update of the filter.
type Corrector interface {
	LoadTable(subject string) error
	ApplyCorrection(s State, angle float64) (State, error)
}

// IdentityLikelihood weights every pad equally, leaving the predicted
// distribution unchanged.
type IdentityLikelihood struct{}

func (IdentityLikelihood) Likelihood(int, float64) (float64, error) { return 1, nil }

// FixedLoader hands out the same table for every subject.
type FixedLoader struct {
	Table Likelihood
}

func (f FixedLoader) LoadTable(string, int) (Likelihood, error) {
	if f.Table == nil {
		return IdentityLikelihood{}, nil
	}
	return f.Table, nil
}

// TableCorrector is the default Corrector: posterior ∝ predicted × likelihood.
type TableCorrector struct {
	loader  TableLoader
	pads    int
	subject string
	table   Likelihood
}

func NewTableCorrector(loader TableLoader, pads int) *TableCorrector {
	return &TableCorrector{loader: loader, pads: pads}
}

func (c *TableCorrector) Subject() string { return c.subject }

func (c *TableCorrector) LoadTable(subject string) error {
	if c.loader == nil {
		return fmt.Errorf("load table for %s: %w", subject, ErrNotReady)
	}
	table, err := c.loader.LoadTable(subject, c.pads)
	if err != nil {
		return fmt.Errorf("load table for %s: %w", subject, err)
	}
	c.subject = subject
	c.table = table
	return nil
}

// ApplyCorrection reweights the predicted distribution and renormalizes it.
// If every weighted mass is zero there is no evidence to apply and the
// predicted distribution is returned unchanged.
func (c *TableCorrector) ApplyCorrection(s State, angle float64) (State, error) {
	if c.table == nil {
		return State{}, ErrNotReady
	}
	if s.Len() != c.pads {
		return State{}, fmt.Errorf("%w: corrector built for %d pads, state has %d", ErrTableShape, c.pads, s.Len())
	}

	post := make([]float64, s.Len())
	total := 0.0
	for i, p := range s.pads {
		l, err := c.table.Likelihood(p.ID, angle)
		if err != nil {
			return State{}, fmt.Errorf("pad %d: %w", p.ID, err)
		}
		if math.IsNaN(l) || math.IsInf(l, 0) || l < 0 {
			return State{}, fmt.Errorf("%w: pad %d has %v", ErrInvalidLikelihood, p.ID, l)
		}
		post[i] = p.Probability * l
		total += post[i]
	}
	if total <= 0 {
		return s.Clone(), nil
	}

	normalize(post)
	return s.WithProbabilities(post)
}
