package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func float64p(v float64) *float64 { return &v }

func TestManifestRoundtrip(t *testing.T) {
	m := New("binarize", "default")
	m.Entries = append(m.Entries, Entry{
		SourcePath:  "in/photo.bmp",
		OutputPath:  "out/photo.tiff",
		Width:       800,
		Height:      600,
		ContentHash: "abcd1234",
		ThumbHash:   "YJqGPQw7sFlslqhFafSE+Q6oJ1h2iA==",
		MSE:         float64p(12.5),
		PSNR:        float64p(37.2),
		DurationMS:  42,
	})
	m.Entries = append(m.Entries, Entry{
		SourcePath: "in/broken.bmp",
		Error:      "imageio: decoding in/broken.bmp: unexpected EOF",
		DurationMS: 1,
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "batch.manifest.json")
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var m2 Manifest
	if err := json.Unmarshal(data, &m2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Engine != "binarize" {
		t.Errorf("engine: got %q", m2.Engine)
	}
	if len(m2.Entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(m2.Entries))
	}
	if m2.Entries[0].ThumbHash != "YJqGPQw7sFlslqhFafSE+Q6oJ1h2iA==" {
		t.Errorf("thumbhash: got %q", m2.Entries[0].ThumbHash)
	}
	if m2.Entries[1].Error == "" {
		t.Error("expected the failing entry to retain its error")
	}
	if m2.Stats.TotalFiles != 2 {
		t.Errorf("total_files: got %d", m2.Stats.TotalFiles)
	}
	if m2.Stats.Succeeded != 1 || m2.Stats.Failed != 1 {
		t.Errorf("succeeded/failed: got %d/%d, want 1/1", m2.Stats.Succeeded, m2.Stats.Failed)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("vng", "")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"engine": "fractal",
		"preset": "default",
		"future_field": "should be ignored",
		"entries": [{"source_path": "a.bmp", "new_field": true}],
		"stats": { "total_files": 1, "succeeded": 1, "failed": 0, "new_stat": 42 }
	}`

	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if len(m.Entries) != 1 || m.Entries[0].SourcePath != "a.bmp" {
		t.Error("entries not parsed correctly")
	}
}

func TestComputeStatsCountsFailures(t *testing.T) {
	m := New("binarize", "fast")
	m.Entries = []Entry{
		{SourcePath: "a", DurationMS: 10},
		{SourcePath: "b", DurationMS: 20, Error: "boom"},
		{SourcePath: "c", DurationMS: 5},
	}
	m.ComputeStats()
	if m.Stats.TotalFiles != 3 {
		t.Errorf("total_files: got %d", m.Stats.TotalFiles)
	}
	if m.Stats.Succeeded != 2 {
		t.Errorf("succeeded: got %d", m.Stats.Succeeded)
	}
	if m.Stats.Failed != 1 {
		t.Errorf("failed: got %d", m.Stats.Failed)
	}
	if m.Stats.TotalDurationMS != 35 {
		t.Errorf("total_duration_ms: got %d", m.Stats.TotalDurationMS)
	}
}
