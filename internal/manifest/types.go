package manifest

// Manifest is the top-level output of a batch run: one engine applied to
// every image in a directory.
type Manifest struct {
	Version     int     `json:"version"`
	GeneratedAt string  `json:"generated_at"`
	Engine      string  `json:"engine"`  // "vng", "fractal", "binarize"
	Preset      string  `json:"preset"`
	Entries     []Entry `json:"entries"`
	Stats       Stats   `json:"stats"`
}

// Entry describes the outcome of running the engine over a single source
// file. Error is set, and the metric/hash fields left zero, when the file
// failed — a failing file never removes its row from the manifest.
type Entry struct {
	SourcePath  string   `json:"source_path"`
	OutputPath  string   `json:"output_path,omitempty"`
	Width       int      `json:"width,omitempty"`
	Height      int      `json:"height,omitempty"`
	ContentHash string   `json:"content_hash,omitempty"`
	ThumbHash   string   `json:"thumbhash,omitempty"` // base64-encoded thumbhash bytes
	MSE         *float64 `json:"mse,omitempty"`
	PSNR        *float64 `json:"psnr,omitempty"`
	DurationMS  int64    `json:"duration_ms"`
	Error       string   `json:"error,omitempty"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalFiles      int   `json:"total_files"`
	Succeeded       int   `json:"succeeded"`
	Failed          int   `json:"failed"`
	TotalDurationMS int64 `json:"total_duration_ms"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
