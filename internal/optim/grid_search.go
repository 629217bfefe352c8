// Package optim searches filter parameters for the combination that scores
// best on a sweep metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/san-kum/padsim/internal/calib"
	"github.com/san-kum/padsim/internal/config"
	"github.com/san-kum/padsim/internal/monitoring"
	"github.com/san-kum/padsim/internal/sweep"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

// Setters maps a tunable parameter name onto the config field it controls.
var Setters = map[string]func(cfg *config.Config, v float64){
	"movement_threshold": func(cfg *config.Config, v float64) { cfg.Params.MovementThreshold = v },
	"prob_min":           func(cfg *config.Config, v float64) { cfg.Params.ProbMin = v },
	"floor":              func(cfg *config.Config, v float64) { cfg.Params.Floor = v },
	"lateral_offset":     func(cfg *config.Config, v float64) { cfg.Geometry.LateralOffset = v },
	"circumference":      func(cfg *config.Config, v float64) { cfg.Geometry.Circumference = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(Setters))
	for name := range Setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Candidate struct {
	Params map[string]float64 `json:"params"`
	Score  float64            `json:"score"`
	Err    error              `json:"-"`
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize flips the objective; by default lower scores win.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Setters[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs a full sweep for every combination and scores it by the mean of
// metricName across subjects. Combinations whose sweep fails are kept in the
// returned list with Err set and never win.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	source calib.Source,
	metricName string,
) (*Candidate, []Candidate, error) {
	var all []Candidate
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, source, metricName, &all); err != nil {
		return nil, all, err
	}

	var best *Candidate
	for i := range all {
		c := &all[i]
		if c.Err != nil {
			continue
		}
		if best == nil || g.better(c.Score, best.Score) {
			best = c
		}
	}
	if best == nil {
		return nil, all, errors.New("optim: no parameter combination completed")
	}

	monitoring.L().Info("grid search finished",
		zap.Int("candidates", len(all)),
		zap.String("metric", metricName),
		zap.Float64("best", best.Score),
	)
	return best, all, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.Maximize {
		return a > b
	}
	return a < b
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	source calib.Source,
	metricName string,
	out *[]Candidate,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for name, v := range current {
			Setters[name](cfg, v)
		}

		c := Candidate{Params: current}
		c.Score, c.Err = evaluate(ctx, cfg, source, metricName)
		if c.Err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		monitoring.L().Debug("candidate", zap.Any("params", current), zap.Float64("score", c.Score), zap.Error(c.Err))
		*out = append(*out, c)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, source, metricName, out); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(ctx context.Context, cfg *config.Config, source calib.Source, metricName string) (float64, error) {
	report, err := sweep.New(cfg, source, nil).Run(ctx)
	if err != nil {
		return math.NaN(), err
	}

	var sum float64
	for _, s := range report.Subjects {
		v, ok := s.Metrics[metricName]
		if !ok {
			return math.NaN(), fmt.Errorf("optim: unknown metric %s", metricName)
		}
		sum += v
	}
	return sum / float64(len(report.Subjects)), nil
}
