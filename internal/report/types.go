package report

// Report is the top-level output of an imgshrink batch run.
type Report struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Preset      string           `json:"preset"`
	BasePath    string           `json:"base_path"`
	RunInfo     *RunInfo         `json:"run_info,omitempty"`
	Entries     map[string]Entry `json:"entries"`
	Stats       Stats            `json:"stats"`
}

// RunInfo captures run-time parameters for diagnostics.
type RunInfo struct {
	Workers       int     `json:"workers"`
	MaxCanvasEdge int     `json:"max_canvas_edge"`
	MaxSizeMB     float64 `json:"max_size_mb,omitempty"` // 0 = unlimited
	MaxIteration  int     `json:"max_iteration"`
}

// Entry describes one source image and its compressed output.
type Entry struct {
	Source SourceInfo `json:"source"`
	Output OutputInfo `json:"output"`
}

// SourceInfo holds metadata about the source image.
type SourceInfo struct {
	Path        string `json:"path"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	Size        int64  `json:"size"`
	Orientation int    `json:"orientation"`
}

// OutputInfo is the encoded result written for an entry.
type OutputInfo struct {
	Format     string  `json:"format"` // "jpeg" or "png"
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Size       int64   `json:"size"`       // bytes on disk
	Hash       string  `json:"hash"`       // first 16 hex chars of xxhash64
	Path       string  `json:"path"`       // relative to base_path
	Quality    float64 `json:"quality"`    // quality of the final encode
	Iterations int     `json:"iterations"` // reduction iterations run
	Converged  bool    `json:"converged"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalEntries     int   `json:"total_entries"`
	Converged        int   `json:"converged"`
	Iterations       int   `json:"iterations"`
	Failed           int   `json:"failed,omitempty"`
}

// SupportedVersion is the current schema version.
const SupportedVersion = 1
