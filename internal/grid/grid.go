// Package grid describes the electrode pad grid wrapped around the forearm.
//
// Pads are numbered 1..Rows*Cols in column-major order: ids 1..Rows fill
// column 0 from row 0 downwards, the next Rows ids fill column 1, and so on.
// Every position computation in the module goes through [Config.Position] so
// that the id mapping used for geometry and for region search cannot drift.
package grid

import (
	"errors"
	"fmt"
	"math"
)

const (
	DefaultRows          = 5
	DefaultCols          = 3
	DefaultCircumference = 18.0
	DefaultLateralOffset = 1.5
	DefaultSpacing       = 1.5
)

var ErrInvalidGrid = errors.New("grid: invalid configuration")

type Config struct {
	Rows int `yaml:"rows" json:"rows"`
	Cols int `yaml:"cols" json:"cols"`
}

func DefaultConfig() Config {
	return Config{Rows: DefaultRows, Cols: DefaultCols}
}

func (c Config) PadCount() int { return c.Rows * c.Cols }

func (c Config) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("%w: rows=%d cols=%d", ErrInvalidGrid, c.Rows, c.Cols)
	}
	return nil
}

// Contains reports whether id is a valid 1-based pad id for the grid.
func (c Config) Contains(id int) bool {
	return id >= 1 && id <= c.PadCount()
}

// Position returns the zero-based row and column of pad id.
func (c Config) Position(id int) (row, col int) {
	return (id - 1) % c.Rows, (id - 1) / c.Rows
}

// ID is the inverse of Position.
func (c Config) ID(row, col int) int {
	return col*c.Rows + row + 1
}

// Geometry holds the physical constants of the forearm cross-section and the
// pad pitch, all in centimeters.
type Geometry struct {
	Circumference float64 `yaml:"circumference" json:"circumference"`
	LateralOffset float64 `yaml:"lateral_offset" json:"lateral_offset"`
	Spacing       float64 `yaml:"spacing" json:"spacing"`
}

func DefaultGeometry() Geometry {
	return Geometry{
		Circumference: DefaultCircumference,
		LateralOffset: DefaultLateralOffset,
		Spacing:       DefaultSpacing,
	}
}

func (g Geometry) Validate() error {
	if g.Circumference <= 0 || math.IsNaN(g.Circumference) || math.IsInf(g.Circumference, 0) {
		return fmt.Errorf("%w: circumference must be positive, got %f", ErrInvalidGrid, g.Circumference)
	}
	if g.LateralOffset < 0 || math.IsNaN(g.LateralOffset) {
		return fmt.Errorf("%w: lateral offset must be non-negative, got %f", ErrInvalidGrid, g.LateralOffset)
	}
	if g.Spacing <= 0 || math.IsNaN(g.Spacing) {
		return fmt.Errorf("%w: spacing must be positive, got %f", ErrInvalidGrid, g.Spacing)
	}
	return nil
}

// CenterRadius is the radius of a circle with the configured circumference.
func (g Geometry) CenterRadius() float64 {
	return g.Circumference / (2 * math.Pi)
}

// Radius returns the distance from the rotation axis to the centre of a pad in
// column col. The middle column sits on the circle; every column away from the
// middle is shifted sideways by LateralOffset, which shortens the radius as a
// chord would. The radicand is clamped at zero.
func (g Geometry) Radius(c Config, col int) float64 {
	rc := g.CenterRadius()
	offset := math.Abs(float64(col)-float64(c.Cols-1)/2) * g.LateralOffset
	if offset == 0 {
		return rc
	}
	return math.Sqrt(math.Max(0, rc*rc-offset*offset))
}

// Layout returns the nominal 2-D position of pad id: x grows with the column,
// y with the row.
func (g Geometry) Layout(c Config, id int) (x, y float64) {
	row, col := c.Position(id)
	return float64(col) * g.Spacing, float64(row) * g.Spacing
}
