package storage

import (
	"encoding/json"
	"io"

	"github.com/CDE90/pi-blocks-simulation/internal/sim"
)

type ExportData struct {
	RunMetadata
	Snapshots []sim.Snapshot `json:"snapshots"`
}

// ExportJSON writes a run's metadata and sampled states as one JSON
// document.
func ExportJSON(w io.Writer, meta *RunMetadata, snaps []sim.Snapshot) error {
	data := ExportData{
		RunMetadata: *meta,
		Snapshots:   snaps,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
