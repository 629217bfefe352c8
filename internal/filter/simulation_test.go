package filter_test

import (
	"errors"
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/padsim/internal/filter"
)

type padWeights map[int]float64

func (w padWeights) Likelihood(id int, _ float64) (float64, error) {
	v, ok := w[id]
	if !ok {
		return 0, fmt.Errorf("no weight for pad %d", id)
	}
	return v, nil
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1.0 / float64(n)
	}
	return out
}

func spike(n, id int) []float64 {
	out := make([]float64, n)
	out[id-1] = 1
	return out
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func identity(pads int) *filter.TableCorrector {
	return filter.NewTableCorrector(filter.FixedLoader{}, pads)
}

var _ = Describe("Simulation", func() {
	var cfg filter.SimConfig

	BeforeEach(func() {
		cfg = filter.DefaultSimConfig()
	})

	Describe("construction", func() {
		It("rejects an initial table of the wrong length", func() {
			_, err := filter.New(cfg, "s1", uniform(14), identity(15))
			Expect(errors.Is(err, filter.ErrTableShape)).To(BeTrue())
		})

		It("rejects probabilities outside [0,1]", func() {
			initial := uniform(15)
			initial[3] = 1.5
			_, err := filter.New(cfg, "s1", initial, identity(15))
			Expect(errors.Is(err, filter.ErrInvalidProbability)).To(BeTrue())
		})

		It("rejects invalid parameters", func() {
			cfg.Params.ProbMin = -0.1
			_, err := filter.New(cfg, "s1", uniform(15), identity(15))
			Expect(errors.Is(err, filter.ErrInvalidParams)).To(BeTrue())
		})

		It("fails when the correction table cannot be loaded", func() {
			_, err := filter.New(cfg, "s1", uniform(15), filter.NewTableCorrector(nil, 15))
			Expect(errors.Is(err, filter.ErrNotReady)).To(BeTrue())
		})

		It("starts in the constructed phase with the initial belief", func() {
			sim, err := filter.New(cfg, "s1", uniform(15), identity(15))
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.Phase()).To(Equal(filter.PhaseConstructed))
			Expect(sim.State().Probabilities()).To(Equal(uniform(15)))
		})
	})

	Describe("uniform belief at zero rotation", func() {
		It("keeps every pad at 1/15 and ranks the pads nearest the grid centre", func() {
			sim, err := filter.New(cfg, "s1", uniform(15), identity(15))
			Expect(err).NotTo(HaveOccurred())

			res, err := sim.RunStep(0)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Steps).To(HaveLen(15))
			for i, row := range res.Steps {
				Expect(row.PadID).To(Equal(i + 1))
				Expect(row.Displacement).To(BeNumerically("==", 0))
				Expect(row.PredictedProb).To(BeNumerically("~", 1.0/15, 1e-12))
				Expect(row.CorrectedProb).To(BeNumerically("~", 1.0/15, 1e-12))
			}
			Expect(res.TopIDs()).To(Equal([]int{8, 3, 7}))
			Expect(sim.Phase()).To(Equal(filter.PhaseStepComplete))
		})
	})

	Describe("spike belief at 90 degrees", func() {
		It("spreads the mass over a three pad region and floors the rest", func() {
			cfg.Params.MovementThreshold = 2.5
			sim, err := filter.New(cfg, "s1", spike(15, 11), identity(15))
			Expect(err).NotTo(HaveOccurred())

			res, err := sim.RunStep(90)
			Expect(err).NotTo(HaveOccurred())

			total := 1.0 + 12*filter.DefaultFloor
			region := map[int]bool{1: true, 2: true, 6: true}
			for _, row := range res.Steps {
				if region[row.PadID] {
					Expect(row.PredictedProb).To(BeNumerically("~", (1.0/3)/total, 1e-12))
				} else {
					Expect(row.PredictedProb).To(BeNumerically("~", filter.DefaultFloor/total, 1e-12))
				}
			}
			Expect(sum(res.Predicted())).To(BeNumerically("~", 1, 1e-9))
			Expect(sum(res.Corrected())).To(BeNumerically("~", 1, 1e-9))
		})
	})

	Describe("normalization", func() {
		DescribeTable("holds after predict and correct",
			func(angle, threshold float64) {
				cfg.Params.MovementThreshold = threshold
				weights := padWeights{}
				for id := 1; id <= 15; id++ {
					weights[id] = float64(id%4) + 0.5
				}
				corrector := filter.NewTableCorrector(filter.FixedLoader{Table: weights}, 15)
				initial := make([]float64, 15)
				for i := range initial {
					initial[i] = float64(i+1) / 120
				}
				sim, err := filter.New(cfg, "s1", initial, corrector)
				Expect(err).NotTo(HaveOccurred())

				for step := 0; step < 3; step++ {
					res, err := sim.RunStep(angle)
					Expect(err).NotTo(HaveOccurred())
					Expect(sum(res.Predicted())).To(BeNumerically("~", 1, 1e-9))
					Expect(sum(res.Corrected())).To(BeNumerically("~", 1, 1e-9))
				}
			},
			Entry("no rotation", 0.0, 1.0),
			Entry("small positive", 10.0, 1.0),
			Entry("negative quarter turn", -90.0, 1.0),
			Entry("wide kernel", 45.0, 2.5),
			Entry("zero threshold", 60.0, 0.0),
		)
	})

	Describe("correction", func() {
		It("weights the predicted belief by the likelihood", func() {
			weights := padWeights{}
			for id := 1; id <= 15; id++ {
				weights[id] = 1
			}
			weights[8] = 3
			corrector := filter.NewTableCorrector(filter.FixedLoader{Table: weights}, 15)
			sim, err := filter.New(cfg, "s1", uniform(15), corrector)
			Expect(err).NotTo(HaveOccurred())

			res, err := sim.RunStep(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps[7].CorrectedProb).To(BeNumerically("~", 3.0/17, 1e-12))
			Expect(res.Steps[0].CorrectedProb).To(BeNumerically("~", 1.0/17, 1e-12))
		})

		It("leaves the belief untouched when a step fails", func() {
			corrector := filter.NewTableCorrector(filter.FixedLoader{Table: padWeights{1: 1}}, 15)
			sim, err := filter.New(cfg, "s1", uniform(15), corrector)
			Expect(err).NotTo(HaveOccurred())
			before := sim.State().Probabilities()

			_, err = sim.RunStep(30)
			Expect(err).To(HaveOccurred())
			var stepErr *filter.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Stage).To(Equal("correct"))
			Expect(sim.State().Probabilities()).To(Equal(before))
		})

		It("rejects non-finite angles", func() {
			sim, err := filter.New(cfg, "s1", uniform(15), identity(15))
			Expect(err).NotTo(HaveOccurred())
			_, err = sim.RunStep(math.Inf(1))
			Expect(errors.Is(err, filter.ErrInvalidAngle)).To(BeTrue())
		})
	})

	Describe("reset", func() {
		It("restores the calibration belief after a step", func() {
			initial := spike(15, 8)
			cfg.Params.MovementThreshold = 1.5
			sim, err := filter.New(cfg, "s1", initial, identity(15))
			Expect(err).NotTo(HaveOccurred())

			_, err = sim.RunStep(45)
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.State().Probabilities()).NotTo(Equal(initial))

			Expect(sim.ResetToInitial()).To(Succeed())
			Expect(sim.Phase()).To(Equal(filter.PhaseStepReady))
			Expect(sim.State().Probabilities()).To(Equal(initial))
			for _, p := range sim.State().Pads() {
				Expect(p.Displacement).To(BeZero())
				Expect(p.InitialProb).To(Equal(initial[p.ID-1]))
			}
		})

		It("makes repeated steps from the same start reproducible", func() {
			sim, err := filter.New(cfg, "s1", spike(15, 13), identity(15))
			Expect(err).NotTo(HaveOccurred())

			first, err := sim.RunStep(30)
			Expect(err).NotTo(HaveOccurred())
			Expect(sim.ResetToInitial()).To(Succeed())
			second, err := sim.RunStep(30)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Steps).To(Equal(first.Steps))
		})

		It("rejects a malformed reset table", func() {
			sim, err := filter.New(cfg, "s1", uniform(15), identity(15))
			Expect(err).NotTo(HaveOccurred())
			Expect(errors.Is(sim.Reset(uniform(3)), filter.ErrTableShape)).To(BeTrue())
			Expect(sim.Phase()).To(Equal(filter.PhaseConstructed))
		})
	})
})
