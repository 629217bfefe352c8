package grid

import (
	"errors"
	"math"
	"testing"
)

func TestPositionColumnMajor(t *testing.T) {
	c := DefaultConfig()

	tests := []struct {
		id       int
		row, col int
	}{
		{1, 0, 0},
		{5, 4, 0},
		{6, 0, 1},
		{8, 2, 1},
		{11, 0, 2},
		{15, 4, 2},
	}

	for _, tt := range tests {
		row, col := c.Position(tt.id)
		if row != tt.row || col != tt.col {
			t.Errorf("Position(%d) = (%d,%d), want (%d,%d)", tt.id, row, col, tt.row, tt.col)
		}
		if got := c.ID(row, col); got != tt.id {
			t.Errorf("ID(%d,%d) = %d, want %d", row, col, got, tt.id)
		}
	}
}

func TestPositionRoundTripAlternateGrid(t *testing.T) {
	c := Config{Rows: 4, Cols: 6}
	seen := make(map[[2]int]bool)
	for id := 1; id <= c.PadCount(); id++ {
		row, col := c.Position(id)
		if row < 0 || row >= c.Rows || col < 0 || col >= c.Cols {
			t.Fatalf("id %d out of grid: (%d,%d)", id, row, col)
		}
		key := [2]int{row, col}
		if seen[key] {
			t.Fatalf("id %d maps to an occupied cell (%d,%d)", id, row, col)
		}
		seen[key] = true
		if c.ID(row, col) != id {
			t.Errorf("round trip failed for id %d", id)
		}
	}
}

func TestRadius(t *testing.T) {
	c := DefaultConfig()
	g := DefaultGeometry()

	rc := 18.0 / (2 * math.Pi)
	side := math.Sqrt(rc*rc - 1.5*1.5)

	if got := g.Radius(c, 1); math.Abs(got-rc) > 1e-12 {
		t.Errorf("center radius = %f, want %f", got, rc)
	}
	for _, col := range []int{0, 2} {
		if got := g.Radius(c, col); math.Abs(got-side) > 1e-12 {
			t.Errorf("side radius col %d = %f, want %f", col, got, side)
		}
	}
}

func TestRadiusClampsNegativeRadicand(t *testing.T) {
	c := Config{Rows: 1, Cols: 3}
	g := Geometry{Circumference: 1.0, LateralOffset: 5.0, Spacing: 1.5}

	if got := g.Radius(c, 0); got != 0 {
		t.Errorf("expected clamped radius 0, got %f", got)
	}
}

func TestLayout(t *testing.T) {
	c := DefaultConfig()
	g := DefaultGeometry()

	x, y := g.Layout(c, 8)
	if x != 1.5 || y != 3.0 {
		t.Errorf("Layout(8) = (%f,%f), want (1.5,3.0)", x, y)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		geom Geometry
	}{
		{"zero rows", Config{Rows: 0, Cols: 3}, DefaultGeometry()},
		{"negative cols", Config{Rows: 5, Cols: -1}, DefaultGeometry()},
		{"zero circumference", DefaultConfig(), Geometry{Circumference: 0, LateralOffset: 1.5, Spacing: 1.5}},
		{"negative offset", DefaultConfig(), Geometry{Circumference: 18, LateralOffset: -1, Spacing: 1.5}},
		{"zero spacing", DefaultConfig(), Geometry{Circumference: 18, LateralOffset: 1.5, Spacing: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				err = tt.geom.Validate()
			}
			if !errors.Is(err, ErrInvalidGrid) {
				t.Errorf("expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}
