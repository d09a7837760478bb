package manifest

import (
	"encoding/json"
	"os"
	"time"
)

// New creates an empty manifest for the given engine/preset pair.
func New(engine, preset string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Engine:      engine,
		Preset:      preset,
	}
}

// ComputeStats recalculates aggregate statistics from entries.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalFiles = len(m.Entries)
	for _, e := range m.Entries {
		s.TotalDurationMS += e.DurationMS
		if e.Error != "" {
			s.Failed++
		} else {
			s.Succeeded++
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
