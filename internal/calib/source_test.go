package calib

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/padsim/internal/filter"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "initialK_values_Subject1.csv", "0.5\n0.25\n0.25\n")
	writeFile(t, dir, "kTable_Subject1.csv", "PadID,0\n1,1\n2,2\n3,1\n")

	src := NewDirSource(dir)

	probs, err := src.InitialProbabilities("Subject1", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.25, 0.25}, probs)

	lik, err := src.LoadTable("Subject1", 3)
	require.NoError(t, err)
	w, err := lik.Likelihood(2, 30)
	require.NoError(t, err)
	assert.Equal(t, 2.0, w)

	_, err = src.InitialProbabilities("Subject2", 3)
	assert.ErrorIs(t, err, ErrUnknownSubject)
	_, err = src.LoadTable("Subject2", 3)
	assert.ErrorIs(t, err, ErrUnknownSubject)

	_, err = src.LoadTable("Subject1", 4)
	assert.ErrorIs(t, err, filter.ErrTableShape)
}

func TestDirSourceWithoutTables(t *testing.T) {
	src := NewDirSource(t.TempDir())
	src.TablePattern = ""

	lik, err := src.LoadTable("anyone", 15)
	require.NoError(t, err)
	assert.Equal(t, filter.IdentityLikelihood{}, lik)
}

func TestMemorySource(t *testing.T) {
	tbl := UniformTable(2)
	src := &MemorySource{
		Initial: map[string][]float64{"a": {0.3, 0.7}},
		Tables:  map[string]*Table{"a": tbl},
	}

	probs, err := src.InitialProbabilities("a", 2)
	require.NoError(t, err)
	probs[0] = 1
	again, _ := src.InitialProbabilities("a", 2)
	assert.Equal(t, 0.3, again[0], "returned slice must be a copy")

	_, err = src.InitialProbabilities("b", 2)
	assert.ErrorIs(t, err, ErrUnknownSubject)
	_, err = src.InitialProbabilities("a", 3)
	assert.ErrorIs(t, err, filter.ErrTableShape)

	lik, err := src.LoadTable("a", 2)
	require.NoError(t, err)
	assert.Same(t, tbl, lik)

	lik, err = src.LoadTable("b", 2)
	require.NoError(t, err)
	assert.Equal(t, filter.IdentityLikelihood{}, lik)

	_, err = src.LoadTable("a", 5)
	assert.ErrorIs(t, err, filter.ErrTableShape)
}

func TestSourceFeedsCorrector(t *testing.T) {
	var src Source = &MemorySource{Initial: map[string][]float64{"s": {1, 0}}}
	c := filter.NewTableCorrector(src, 2)
	require.NoError(t, c.LoadTable("s"))
	assert.Equal(t, "s", c.Subject())
}

func TestMemorySourceRejectsShiftedPadIDs(t *testing.T) {
	shifted, err := NewTable(nil, map[int][]float64{2: {1}, 3: {1}})
	require.NoError(t, err)
	assert.ErrorIs(t, shifted.CheckPads(2), filter.ErrTableShape)

	src := &MemorySource{
		Initial: map[string][]float64{"s": {0.5, 0.5}},
		Tables:  map[string]*Table{"s": shifted},
	}
	_, err = src.LoadTable("s", 2)
	assert.ErrorIs(t, err, filter.ErrTableShape)

	c := filter.NewTableCorrector(src, 2)
	assert.ErrorIs(t, c.LoadTable("s"), filter.ErrTableShape)
	assert.Empty(t, c.Subject())
}
