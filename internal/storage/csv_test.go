package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/padsim/internal/filter"
)

func TestCSVWriterPath(t *testing.T) {
	w := NewCSVWriter("out")
	assert.Equal(t, filepath.Join("out", "results_Subject1_angle_45.0.csv"), w.Path("Subject1", 45))
	assert.Equal(t, filepath.Join("out", "results_S2_angle_-90.0.csv"), w.Path("S2", -90))
	assert.Equal(t, filepath.Join("out", "results_S2_angle_12.3.csv"), w.Path("S2", 12.34))
}

func TestWriteResultCSVLayout(t *testing.T) {
	r := &filter.SimulationResult{
		Subject: "s",
		Angle:   10,
		Steps: []filter.BayesStepResult{
			{PadID: 1, InitialProb: 0.5, Displacement: -1.25, PredictedProb: 0.25, CorrectedProb: 0.125},
			{PadID: 2, InitialProb: 0.5, Displacement: 0, PredictedProb: 0.75, CorrectedProb: 0.875},
		},
		TopPads: []filter.Pad{{ID: 2}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResultCSV(&buf, r))

	want := strings.Join([]string{
		"PadID,InitialProb,Displacement,PredictedProb,CorrectedProb",
		"1,0.50000000,-1.25000000,0.25000000,0.12500000",
		"2,0.50000000,0.00000000,0.75000000,0.87500000",
		"",
		"TopPad1,TopPad2,TopPad3",
		"2,,",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteResultCSVWideRanking(t *testing.T) {
	r := &filter.SimulationResult{TopPads: []filter.Pad{{ID: 4}, {ID: 3}, {ID: 2}, {ID: 1}}}

	var buf bytes.Buffer
	require.NoError(t, WriteResultCSV(&buf, r))
	assert.Contains(t, buf.String(), "TopPad1,TopPad2,TopPad3,TopPad4\n4,3,2,1\n")
}

func TestCSVWriterRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	w := NewCSVWriter(dir)

	res := runSteps(t, "Subject1", 30)[0]
	require.NoError(t, w.Write(res))

	f, err := os.Open(w.Path("Subject1", 30))
	require.NoError(t, err)
	defer f.Close()

	steps, top, err := ReadResultCSV(f)
	require.NoError(t, err)
	assert.Equal(t, res.TopIDs(), top)

	if diff := cmp.Diff(res.Steps, steps, cmpopts.EquateApprox(0, 1e-8)); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestReadResultCSVRejectsOtherFiles(t *testing.T) {
	_, _, err := ReadResultCSV(strings.NewReader("time,x0\n0,1\n"))
	assert.Error(t, err)
}
