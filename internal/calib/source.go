package calib

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/san-kum/padsim/internal/filter"
)

const (
	DefaultInitialPattern = "initialK_values_%s.csv"
	DefaultTablePattern   = "kTable_%s.csv"
)

// Source supplies per-subject calibration data.
type Source interface {
	filter.TableLoader
	InitialProbabilities(subject string, n int) ([]float64, error)
}

// DirSource reads calibration files from a directory. File names are built
// from the patterns with the subject name; an empty TablePattern means no
// correction tables exist and every subject gets the identity likelihood.
type DirSource struct {
	Dir            string
	InitialPattern string
	TablePattern   string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{
		Dir:            dir,
		InitialPattern: DefaultInitialPattern,
		TablePattern:   DefaultTablePattern,
	}
}

func (d *DirSource) InitialPath(subject string) string {
	return filepath.Join(d.Dir, fmt.Sprintf(d.InitialPattern, subject))
}

func (d *DirSource) TablePath(subject string) string {
	return filepath.Join(d.Dir, fmt.Sprintf(d.TablePattern, subject))
}

func (d *DirSource) InitialProbabilities(subject string, n int) ([]float64, error) {
	path := d.InitialPath(subject)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnknownSubject, subject, path)
		}
		return nil, err
	}
	defer f.Close()

	probs, err := ReadProbabilities(f, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return probs, nil
}

func (d *DirSource) LoadTable(subject string, pads int) (filter.Likelihood, error) {
	if d.TablePattern == "" {
		return filter.IdentityLikelihood{}, nil
	}
	path := d.TablePath(subject)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no correction table for %s (%s)", ErrUnknownSubject, subject, path)
		}
		return nil, err
	}
	defer f.Close()

	t, err := ReadTable(f, pads)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// MemorySource serves calibration data held in memory. Subjects without a
// table fall back to Default, or to the identity likelihood when Default is
// nil.
type MemorySource struct {
	Initial map[string][]float64
	Tables  map[string]*Table
	Default filter.Likelihood
}

func (m *MemorySource) InitialProbabilities(subject string, n int) ([]float64, error) {
	probs, ok := m.Initial[subject]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSubject, subject)
	}
	if err := filter.ValidateProbabilities(probs, n); err != nil {
		return nil, err
	}
	return append([]float64(nil), probs...), nil
}

func (m *MemorySource) LoadTable(subject string, pads int) (filter.Likelihood, error) {
	if t, ok := m.Tables[subject]; ok {
		if err := t.CheckPads(pads); err != nil {
			return nil, fmt.Errorf("table for %s: %w", subject, err)
		}
		return t, nil
	}
	if m.Default != nil {
		return m.Default, nil
	}
	return filter.IdentityLikelihood{}, nil
}
