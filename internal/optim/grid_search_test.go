package optim

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/padsim/internal/calib"
	"github.com/san-kum/padsim/internal/config"
)

func spikeSource() *calib.MemorySource {
	p := make([]float64, 15)
	p[7] = 1
	return &calib.MemorySource{Initial: map[string][]float64{"A": p}}
}

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Subjects = []string{"A"}
	cfg.Angles = []float64{0}
	return cfg
}

func TestNewGridSearchRejectsUnknownParam(t *testing.T) {
	_, err := NewGridSearch([]string{"gain"}, [][]float64{{1}})
	require.ErrorIs(t, err, ErrUnknownParam)

	_, err = NewGridSearch([]string{"prob_min"}, nil)
	require.Error(t, err)

	_, err = NewGridSearch([]string{"prob_min"}, [][]float64{{}})
	require.Error(t, err)
}

func TestSearchMinimizesEntropy(t *testing.T) {
	g, err := NewGridSearch([]string{"movement_threshold"}, [][]float64{{100, 0.5}})
	require.NoError(t, err)

	best, all, err := g.Search(context.Background(), baseConfig(), spikeSource(), "entropy")
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, 0.5, best.Params["movement_threshold"])
	assert.InDelta(t, math.Log(15), all[0].Score, 1e-9)
	assert.Less(t, best.Score, 0.1)
}

func TestSearchMaximize(t *testing.T) {
	g, err := NewGridSearch(
		[]string{"movement_threshold", "prob_min"},
		[][]float64{{0.5, 100}, {0.01, 0.05}},
	)
	require.NoError(t, err)
	g.Maximize = true

	best, all, err := g.Search(context.Background(), baseConfig(), spikeSource(), "peak")
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, 0.5, best.Params["movement_threshold"])
	assert.Greater(t, best.Score, 0.99)
}

func TestSearchKeepsFailedCandidates(t *testing.T) {
	g, err := NewGridSearch([]string{"prob_min"}, [][]float64{{-1, 0.05}})
	require.NoError(t, err)

	best, all, err := g.Search(context.Background(), baseConfig(), spikeSource(), "entropy")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Error(t, all[0].Err)
	assert.Equal(t, 0.05, best.Params["prob_min"])
}

func TestSearchUnknownMetric(t *testing.T) {
	g, err := NewGridSearch([]string{"prob_min"}, [][]float64{{0.05}})
	require.NoError(t, err)

	_, all, err := g.Search(context.Background(), baseConfig(), spikeSource(), "nope")
	require.Error(t, err)
	require.Len(t, all, 1)
	assert.Error(t, all[0].Err)
}

func TestSearchCancelled(t *testing.T) {
	g, err := NewGridSearch([]string{"prob_min"}, [][]float64{{0.05, 0.1}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = g.Search(ctx, baseConfig(), spikeSource(), "entropy")
	require.ErrorIs(t, err, context.Canceled)
}
