package storage

import (
	"errors"

	"github.com/san-kum/padsim/internal/filter"
)

// Writer persists the outcome of one filter step. Implementations must be
// safe for use by several sweep workers at once.
type Writer interface {
	Write(r *filter.SimulationResult) error
}

type multiWriter []Writer

// MultiWriter fans each result out to every non-nil writer. All writers are
// attempted; their errors are joined.
func MultiWriter(writers ...Writer) Writer {
	out := make(multiWriter, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			out = append(out, w)
		}
	}
	return out
}

func (m multiWriter) Write(r *filter.SimulationResult) error {
	var errs []error
	for _, w := range m {
		if err := w.Write(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
