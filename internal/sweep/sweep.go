// Package sweep drives the filter over every configured subject and angle.
//
// Each subject gets its own Simulation, created from the calibration source
// and never shared between goroutines. Subjects are spread over a bounded
// pool of workers; results are handed to a storage.Writer as they are
// produced. Persistence failures are logged and counted but do not stop the
// sweep.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/padsim/internal/calib"
	"github.com/san-kum/padsim/internal/config"
	"github.com/san-kum/padsim/internal/filter"
	"github.com/san-kum/padsim/internal/metrics"
	"github.com/san-kum/padsim/internal/monitoring"
	"github.com/san-kum/padsim/internal/storage"
)

// Observer is notified after every successful step. With more than one
// worker it is called concurrently.
type Observer interface {
	OnStep(r *filter.SimulationResult)
}

type ObserverFunc func(r *filter.SimulationResult)

func (f ObserverFunc) OnStep(r *filter.SimulationResult) { f(r) }

type SubjectReport struct {
	Subject       string                     `json:"subject"`
	Results       []*filter.SimulationResult `json:"results"`
	Metrics       map[string]float64         `json:"metrics"`
	PersistErrors int                        `json:"persist_errors"`
	Err           error                      `json:"-"`
}

type Report struct {
	Subjects      []SubjectReport `json:"subjects"`
	Steps         int             `json:"steps"`
	PersistErrors int             `json:"persist_errors"`
}

// Failed returns the subjects that stopped with an error.
func (r *Report) Failed() []SubjectReport {
	var out []SubjectReport
	for _, s := range r.Subjects {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

type Runner struct {
	cfg       *config.Config
	source    calib.Source
	writer    storage.Writer
	workers   int
	observers []Observer
}

// New builds a runner. A nil writer discards results.
func New(cfg *config.Config, source calib.Source, writer storage.Writer) *Runner {
	return &Runner{
		cfg:     cfg,
		source:  source,
		writer:  writer,
		workers: cfg.Workers,
	}
}

func (r *Runner) SetWorkers(n int)       { r.workers = n }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run processes every subject. Subjects that fail are reported individually
// and their errors joined into the returned error; the other subjects still
// complete. A cancelled context stops all workers between steps.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	if r.source == nil {
		return nil, fmt.Errorf("%w: no calibration source", config.ErrInvalidConfig)
	}

	subjects := r.cfg.Subjects
	reports := make([]SubjectReport, len(subjects))

	workers := max(1, min(r.workers, len(subjects)))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				reports[idx] = r.RunSubject(ctx, subjects[idx])
			}
		}()
	}

feed:
	for i := range subjects {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(subjects); j++ {
				reports[j] = SubjectReport{Subject: subjects[j], Err: ctx.Err()}
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	report := &Report{Subjects: reports}
	var errs []error
	for _, s := range reports {
		report.Steps += len(s.Results)
		report.PersistErrors += s.PersistErrors
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}

	monitoring.L().Info("sweep finished",
		zap.Int("subjects", len(subjects)),
		zap.Int("steps", report.Steps),
		zap.Int("failed", len(errs)),
		zap.Int("persist_errors", report.PersistErrors),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, errors.Join(errs...)
}

// RunSubject runs every configured angle for one subject.
func (r *Runner) RunSubject(ctx context.Context, subject string) SubjectReport {
	rep := SubjectReport{Subject: subject, Metrics: make(map[string]float64)}
	log := monitoring.L().With(zap.String("subject", subject))

	n := r.cfg.Grid.PadCount()
	initial, err := r.source.InitialProbabilities(subject, n)
	if err != nil {
		rep.Err = fmt.Errorf("subject %s: %w", subject, err)
		log.Warn("skipping subject", zap.Error(err))
		return rep
	}

	sim, err := filter.New(r.cfg.SimConfig, subject, initial, filter.NewTableCorrector(r.source, n))
	if err != nil {
		rep.Err = err
		log.Warn("skipping subject", zap.Error(err))
		return rep
	}

	ms := metrics.Defaults()
	for _, angle := range r.cfg.Angles {
		select {
		case <-ctx.Done():
			rep.Err = ctx.Err()
			return rep
		default:
		}

		if r.cfg.ResetEachAngle {
			if err := sim.ResetToInitial(); err != nil {
				rep.Err = err
				return rep
			}
		}

		res, err := sim.RunStep(angle)
		if err != nil {
			rep.Err = err
			log.Warn("step failed", zap.Float64("angle", angle), zap.Error(err))
			return rep
		}
		rep.Results = append(rep.Results, res)

		for _, m := range ms {
			m.Observe(res)
		}
		for _, o := range r.observers {
			o.OnStep(res)
		}

		if r.writer != nil {
			if err := r.writer.Write(res); err != nil {
				rep.PersistErrors++
				log.Warn("failed to persist step", zap.Float64("angle", angle), zap.Error(err))
			}
		}

		log.Debug("step",
			zap.Float64("angle", angle),
			zap.Ints("top", res.TopIDs()),
		)
	}

	for _, m := range ms {
		rep.Metrics[m.Name()] = m.Value()
	}
	return rep
}
