package models

// Snapshot is the on-disk envelope for the whole key-value store. The
// version field guards future layout changes; legacy files without an
// envelope are a flat string map.
type Snapshot struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}
