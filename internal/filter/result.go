package filter

// BayesStepResult is the per-pad row of one filter step.
type BayesStepResult struct {
	PadID         int     `json:"pad_id"`
	InitialProb   float64 `json:"initial_prob"`
	Displacement  float64 `json:"displacement"`
	PredictedProb float64 `json:"predicted_prob"`
	CorrectedProb float64 `json:"corrected_prob"`
}

// SimulationResult is everything one predict-correct-select cycle produced.
// Steps holds one row per pad in id order; TopPads are ranked snapshots.
type SimulationResult struct {
	Subject string            `json:"subject"`
	Angle   float64           `json:"angle"`
	Steps   []BayesStepResult `json:"steps"`
	TopPads []Pad             `json:"top_pads"`
}

func (r *SimulationResult) TopIDs() []int {
	ids := make([]int, len(r.TopPads))
	for i, p := range r.TopPads {
		ids[i] = p.ID
	}
	return ids
}

func (r *SimulationResult) Corrected() []float64 {
	out := make([]float64, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.CorrectedProb
	}
	return out
}

func (r *SimulationResult) Predicted() []float64 {
	out := make([]float64, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.PredictedProb
	}
	return out
}

func (r *SimulationResult) Initial() []float64 {
	out := make([]float64, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.InitialProb
	}
	return out
}

func newResult(subject string, angle float64, predicted, corrected State, top []Pad) *SimulationResult {
	steps := make([]BayesStepResult, corrected.Len())
	for i, p := range corrected.pads {
		steps[i] = BayesStepResult{
			PadID:         p.ID,
			InitialProb:   p.InitialProb,
			Displacement:  p.Displacement,
			PredictedProb: predicted.pads[i].Probability,
			CorrectedProb: p.Probability,
		}
	}
	return &SimulationResult{
		Subject: subject,
		Angle:   angle,
		Steps:   steps,
		TopPads: top,
	}
}
