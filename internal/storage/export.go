package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run   *RunMeta     `json:"run"`
	Steps []StoredStep `json:"steps"`
}

func ExportJSON(w io.Writer, run *RunMeta, steps []StoredStep) error {
	if steps == nil {
		steps = []StoredStep{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: run, Steps: steps})
}

func ExportJSONFile(path string, run *RunMeta, steps []StoredStep) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := ExportJSON(file, run, steps); err != nil {
		return err
	}
	return file.Close()
}
