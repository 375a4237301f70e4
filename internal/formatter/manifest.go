package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/lcleigh/page-hoppers-frontend/internal/shared"
)

// ManifestEntry records the outcome of exporting one reader.
type ManifestEntry struct {
	ChildID uint   `json:"child_id"`
	Reader  string `json:"reader"`
	File    string `json:"file,omitempty"`
	Books   int    `json:"books"`
	Error   string `json:"error,omitempty"`
}

// Manifest summarises a family export.
type Manifest struct {
	Format     Format          `json:"format"`
	ExportedAt time.Time       `json:"exported_at"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Entries    []ManifestEntry `json:"entries"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
