package calib

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/padsim/internal/filter"
)

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return cr
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ReadProbabilities reads exactly n initial probabilities.
func ReadProbabilities(r io.Reader, n int) ([]float64, error) {
	records, err := newReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var (
		values  []float64
		byID    map[int]float64
		started bool
	)
	for line, record := range records {
		if blank(record) {
			continue
		}
		first := !started
		started = true

		raw := record[0]
		id := 0
		if len(record) >= 2 {
			idVal, idErr := strconv.Atoi(strings.TrimSpace(record[0]))
			if idErr != nil {
				if first {
					continue
				}
				return nil, fmt.Errorf("%w: row %d: pad id %q", ErrParse, line+1, record[0])
			}
			id, raw = idVal, record[1]
		}

		v, err := parseFloat(raw)
		if err != nil {
			if first {
				continue
			}
			return nil, fmt.Errorf("%w: row %d: value %q", ErrParse, line+1, raw)
		}

		if id == 0 {
			values = append(values, v)
			continue
		}
		if byID == nil {
			byID = make(map[int]float64, n)
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicatePad, id)
		}
		byID[id] = v
	}

	if byID != nil {
		if values != nil {
			return nil, fmt.Errorf("%w: mixed keyed and unkeyed rows", ErrParse)
		}
		values = make([]float64, 0, n)
		for id := 1; id <= len(byID); id++ {
			v, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: pad ids are not 1..%d", filter.ErrTableShape, len(byID))
			}
			values = append(values, v)
		}
	}

	if err := filter.ValidateProbabilities(values, n); err != nil {
		return nil, err
	}
	return values, nil
}

// WriteProbabilities writes probs as "PadID,InitialProb" rows.
func WriteProbabilities(w io.Writer, probs []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"PadID", "InitialProb"}); err != nil {
		return err
	}
	for i, p := range probs {
		row := []string{strconv.Itoa(i + 1), strconv.FormatFloat(p, 'f', -1, 64)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
