package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/padsim/internal/filter"
)

var resultHeader = []string{"PadID", "InitialProb", "Displacement", "PredictedProb", "CorrectedProb"}

const minTopColumns = 3

// CSVWriter writes one results file per subject and angle.
type CSVWriter struct {
	Dir string
}

func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{Dir: dir}
}

func (w *CSVWriter) Path(subject string, angle float64) string {
	return filepath.Join(w.Dir, fmt.Sprintf("results_%s_angle_%.1f.csv", subject, angle))
}

func (w *CSVWriter) Write(r *filter.SimulationResult) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return err
	}

	path := w.Path(r.Subject, r.Angle)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteResultCSV(f, r); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatProb(v float64) string {
	return strconv.FormatFloat(v, 'f', 8, 64)
}

// WriteResultCSV writes the per-pad table, a blank line and the ranked pad
// ids. The ranking always has at least three columns, blank when fewer pads
// were selected.
func WriteResultCSV(out io.Writer, r *filter.SimulationResult) error {
	w := csv.NewWriter(out)
	if err := w.Write(resultHeader); err != nil {
		return err
	}
	for _, s := range r.Steps {
		row := []string{
			strconv.Itoa(s.PadID),
			formatProb(s.InitialProb),
			formatProb(s.Displacement),
			formatProb(s.PredictedProb),
			formatProb(s.CorrectedProb),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	if err := w.Write(nil); err != nil {
		return err
	}

	width := max(minTopColumns, len(r.TopPads))
	header := make([]string, width)
	ids := make([]string, width)
	for i := 0; i < width; i++ {
		header[i] = fmt.Sprintf("TopPad%d", i+1)
		if i < len(r.TopPads) {
			ids[i] = strconv.Itoa(r.TopPads[i].ID)
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.Write(ids); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// ReadResultCSV parses a file produced by WriteResultCSV.
func ReadResultCSV(in io.Reader) ([]filter.BayesStepResult, []int, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 || strings.Join(records[0], ",") != strings.Join(resultHeader, ",") {
		return nil, nil, fmt.Errorf("storage: not a results file")
	}

	var steps []filter.BayesStepResult
	i := 1
	for ; i < len(records); i++ {
		rec := records[i]
		if strings.HasPrefix(rec[0], "TopPad") {
			break
		}
		if len(rec) != len(resultHeader) {
			return nil, nil, fmt.Errorf("storage: row %d has %d fields", i+1, len(rec))
		}
		var s filter.BayesStepResult
		if s.PadID, err = strconv.Atoi(rec[0]); err != nil {
			return nil, nil, err
		}
		vals := make([]float64, 4)
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(rec[j+1], 64); err != nil {
				return nil, nil, err
			}
		}
		s.InitialProb, s.Displacement, s.PredictedProb, s.CorrectedProb = vals[0], vals[1], vals[2], vals[3]
		steps = append(steps, s)
	}

	var top []int
	if i+1 < len(records) {
		for _, cell := range records[i+1] {
			if cell == "" {
				continue
			}
			id, err := strconv.Atoi(cell)
			if err != nil {
				return nil, nil, err
			}
			top = append(top, id)
		}
	}
	return steps, top, nil
}
