package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fleshsim/internal/sim"
)

type ExportData struct {
	Run     RunMetadata        `json:"run"`
	Frames  []sim.Frame        `json:"frames"`
	Tears   []TearRecord       `json:"tears"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	tears, err := s.LoadTears(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:     *meta,
		Frames:  frames,
		Tears:   tears,
		Metrics: meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes the stored frames of a run.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}
	return WriteFramesCSV(w, frames)
}
