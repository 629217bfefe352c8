// Package filter implements the discrete Bayes filter that tracks which
// stimulation pad best matches a calibrated reference pad while the forearm
// rotates.
//
// One filter step is a pipeline of pure stages over a [State]:
//
//   - [Displace]: arc-length displacement of every pad for a rotation angle
//   - [Predict]: spreads each pad's mass uniformly over its displaced [Region]
//   - [Corrector.ApplyCorrection]: reweights by a subject-specific likelihood
//   - [Select]: ranks surviving pads by distance to the weighted centroid
//
// Each stage returns a new State, so intermediate distributions can be kept
// as snapshots without copying by hand. [Simulation] strings the stages
// together for one subject and produces a [SimulationResult] per angle.
//
// # Example
//
//	sim, err := filter.New(filter.DefaultSimConfig(), "Subject1", initial, corrector)
//	if err != nil {
//	    return err
//	}
//	res, err := sim.RunStep(45)
//
// # Thread Safety
//
// A Simulation is NOT safe for concurrent use. Independent subjects may be
// run in parallel as long as each owns its own Simulation.
package filter
