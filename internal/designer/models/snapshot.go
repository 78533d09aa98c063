package models

// ============================================================
// Persisted record
// ============================================================

// Snapshot is the flat record the shell stores and restores. Only
// mechanism, card size and elements are required.
type Snapshot struct {
	Mechanism    string            `json:"mechanism"`
	CardWidth    float64           `json:"cardWidth"`
	CardHeight   float64           `json:"cardHeight"`
	Elements     []SnapshotElement `json:"elements"`
	Articulation *float64          `json:"articulation,omitempty"`
	ProjectName  string            `json:"projectName,omitempty"`
	Material     *Material         `json:"material,omitempty"`
	PaperLayers  []SnapshotPaper   `json:"paperLayers,omitempty"`
	Timestamp    string            `json:"timestamp,omitempty"`
}

type SnapshotElement struct {
	ID    *int    `json:"id,omitempty"`
	X     float64 `json:"x"`
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

type SnapshotPaper struct {
	Color string    `json:"color"`
	Size  PaperSize `json:"size"`
}
