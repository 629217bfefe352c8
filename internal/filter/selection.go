package filter

import (
	"math"
	"sort"
)

// distQuantum collapses centroid distances that differ only by rounding so
// that ties fall back to pad id order.
const distQuantum = 1e-9

// Centroid returns the probability-weighted mean (col, row) of pads, or
// (0, 0) when their total probability is zero.
func Centroid(pads []Pad) (x, y float64) {
	var sumP, sumX, sumY float64
	for _, p := range pads {
		sumP += p.Probability
		sumX += float64(p.Col) * p.Probability
		sumY += float64(p.Row) * p.Probability
	}
	if sumP > 0 {
		return sumX / sumP, sumY / sumP
	}
	return 0, 0
}

// Select keeps pads with probability >= probMin, computes their weighted
// centroid in column/row space and returns the topN pads closest to it.
// Equal distances are ordered by ascending pad id. An empty filtered set
// yields an empty result.
func Select(s State, probMin float64, topN int) []Pad {
	filtered := make([]Pad, 0, len(s.pads))
	for _, p := range s.pads {
		if p.Probability >= probMin {
			filtered = append(filtered, p)
		}
	}
	if len(filtered) == 0 || topN <= 0 {
		return []Pad{}
	}

	cx, cy := Centroid(filtered)
	keys := make(map[int]float64, len(filtered))
	for _, p := range filtered {
		d := math.Hypot(float64(p.Col)-cx, float64(p.Row)-cy)
		keys[p.ID] = math.Round(d / distQuantum)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		ki, kj := keys[filtered[i].ID], keys[filtered[j].ID]
		if ki != kj {
			return ki < kj
		}
		return filtered[i].ID < filtered[j].ID
	})

	if topN < len(filtered) {
		filtered = filtered[:topN]
	}
	return filtered
}
