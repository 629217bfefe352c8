package calib

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/padsim/internal/filter"
)

// Table holds a sensitivity weight per pad, optionally per calibrated angle.
type Table struct {
	angles []float64
	values map[int][]float64
}

// NewTable builds a table from weights keyed by pad id. With no angles each
// pad must have exactly one weight; otherwise one weight per angle.
func NewTable(angles []float64, values map[int][]float64) (*Table, error) {
	width := len(angles)
	if width == 0 {
		width = 1
	}

	for i, a := range angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, fmt.Errorf("%w: angle column %d is %v", ErrParse, i, a)
		}
	}

	order := make([]int, len(angles))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return angles[order[i]] < angles[order[j]] })
	sorted := make([]float64, len(angles))
	for i, k := range order {
		sorted[i] = angles[k]
		if i > 0 && sorted[i] == sorted[i-1] {
			return nil, fmt.Errorf("%w: angle %v listed twice", ErrParse, sorted[i])
		}
	}

	t := &Table{angles: sorted, values: make(map[int][]float64, len(values))}
	for id, row := range values {
		if len(row) != width {
			return nil, fmt.Errorf("%w: pad %d has %d weights, want %d", filter.ErrTableShape, id, len(row), width)
		}
		out := make([]float64, width)
		for i := range row {
			k := i
			if len(angles) > 0 {
				k = order[i]
			}
			v := row[k]
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("%w: pad %d has %v", filter.ErrInvalidLikelihood, id, v)
			}
			out[i] = v
		}
		t.values[id] = out
	}
	return t, nil
}

// UniformTable weights all n pads equally at every angle.
func UniformTable(n int) *Table {
	values := make(map[int][]float64, n)
	for id := 1; id <= n; id++ {
		values[id] = []float64{1}
	}
	return &Table{values: values}
}

func (t *Table) Pads() int { return len(t.values) }

// CheckPads reports ErrTableShape unless the table holds exactly pad ids 1..n.
func (t *Table) CheckPads(n int) error { return checkPads(t.values, n) }

func checkPads(values map[int][]float64, n int) error {
	if len(values) != n {
		return fmt.Errorf("%w: table has %d pads, want %d", filter.ErrTableShape, len(values), n)
	}
	for id := 1; id <= n; id++ {
		if _, ok := values[id]; !ok {
			return fmt.Errorf("%w: pad %d missing", filter.ErrTableShape, id)
		}
	}
	return nil
}

func (t *Table) Angles() []float64 {
	return append([]float64(nil), t.angles...)
}

// Likelihood returns the weight of pad id at angle, interpolating between
// calibrated angles.
func (t *Table) Likelihood(id int, angle float64) (float64, error) {
	row, ok := t.values[id]
	if !ok {
		return 0, fmt.Errorf("%w: no weight for pad %d", filter.ErrTableShape, id)
	}
	if len(t.angles) == 0 {
		return row[0], nil
	}

	n := len(t.angles)
	if angle <= t.angles[0] {
		return row[0], nil
	}
	if angle >= t.angles[n-1] {
		return row[n-1], nil
	}
	hi := sort.SearchFloat64s(t.angles, angle)
	if t.angles[hi] == angle {
		return row[hi], nil
	}
	lo := hi - 1
	frac := (angle - t.angles[lo]) / (t.angles[hi] - t.angles[lo])
	return row[lo] + frac*(row[hi]-row[lo]), nil
}

// ReadTable reads a correction table covering pads 1..n.
func ReadTable(r io.Reader, n int) (*Table, error) {
	records, err := newReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var header []string
	values := make(map[int][]float64, n)
	for line, record := range records {
		if blank(record) {
			continue
		}
		if header == nil {
			header = record
			if len(header) < 2 {
				return nil, fmt.Errorf("%w: header needs a pad column and at least one weight column", ErrParse)
			}
			continue
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrParse, line+1, len(record), len(header))
		}

		id, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: pad id %q", ErrParse, line+1, record[0])
		}
		if _, dup := values[id]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicatePad, id)
		}
		row := make([]float64, len(record)-1)
		for i, cell := range record[1:] {
			if row[i], err = parseFloat(cell); err != nil {
				return nil, fmt.Errorf("%w: row %d: value %q", ErrParse, line+1, cell)
			}
		}
		values[id] = row
	}
	if header == nil {
		return nil, fmt.Errorf("%w: empty table", ErrParse)
	}

	if err := checkPads(values, n); err != nil {
		return nil, err
	}

	var angles []float64
	if len(header) > 2 {
		angles = make([]float64, len(header)-1)
		for i, h := range header[1:] {
			if angles[i], err = parseFloat(h); err != nil {
				return nil, fmt.Errorf("%w: angle column %q", ErrParse, h)
			}
		}
	} else if a, err := parseFloat(header[1]); err == nil {
		angles = []float64{a}
	}

	return NewTable(angles, values)
}

// WriteTable writes t in the format accepted by ReadTable.
func WriteTable(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	header := []string{"PadID"}
	if len(t.angles) == 0 {
		header = append(header, "Weight")
	}
	for _, a := range t.angles {
		header = append(header, strconv.FormatFloat(a, 'f', -1, 64))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	ids := make([]int, 0, len(t.values))
	for id := range t.values {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		row := []string{strconv.Itoa(id)}
		for _, v := range t.values[id] {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
