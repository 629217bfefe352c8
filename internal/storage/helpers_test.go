package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/padsim/internal/filter"
)

func uniform(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 1 / float64(n)
	}
	return p
}

// runSteps drives a default 5x3 simulation through the given angles.
func runSteps(t *testing.T, subject string, angles ...float64) []*filter.SimulationResult {
	t.Helper()
	cfg := filter.DefaultSimConfig()
	n := cfg.Grid.PadCount()
	corrector := filter.NewTableCorrector(filter.FixedLoader{}, n)

	sim, err := filter.New(cfg, subject, uniform(n), corrector)
	require.NoError(t, err)

	var out []*filter.SimulationResult
	for _, a := range angles {
		r, err := sim.RunStep(a)
		require.NoError(t, err)
		out = append(out, r)
	}
	return out
}
