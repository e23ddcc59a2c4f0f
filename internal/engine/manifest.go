package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// manifestVersion is bumped when the manifest layout changes incompatibly.
const manifestVersion = 1

// Manifest describes the images a batch produced, for sprite-sheet packers.
type Manifest struct {
	Version   int             `json:"version"`
	RunID     string          `json:"run_id"`
	Target    string          `json:"target"`
	CreatedAt time.Time       `json:"created_at"`
	Total     int             `json:"total"`
	Completed int             `json:"completed"`
	Skipped   int             `json:"skipped"`
	Aborted   bool            `json:"aborted"`
	Shots     []ManifestEntry `json:"shots"`
}

// ManifestEntry is one image in the manifest.
type ManifestEntry struct {
	Frame        int     `json:"frame"`
	Step         int     `json:"step"`
	FrameName    string  `json:"frame_name"`
	AngleName    string  `json:"angle_name"`
	AngleRadians float64 `json:"angle_rad"`
	AngleDegrees float64 `json:"angle_deg"`
	Path         string  `json:"path"`
	Skipped      bool    `json:"skipped,omitempty"`
}

// NewManifest builds a manifest from a finished batch.
func NewManifest(runID, target string, result BatchResult) *Manifest {
	m := &Manifest{
		Version:   manifestVersion,
		RunID:     runID,
		Target:    target,
		CreatedAt: time.Now().UTC(),
		Total:     result.ShotsTotal,
		Completed: result.ShotsCompleted,
		Skipped:   result.ShotsSkipped,
		Aborted:   result.Aborted,
		Shots:     make([]ManifestEntry, 0, len(result.Shots)),
	}
	for _, rec := range result.Shots {
		m.Shots = append(m.Shots, ManifestEntry{
			Frame:        rec.FrameIndex,
			Step:         rec.StepIndex,
			FrameName:    rec.FrameName,
			AngleName:    rec.AngleName,
			AngleRadians: rec.AngleRadians,
			AngleDegrees: rec.AngleDegrees(),
			Path:         rec.OutputPath,
			Skipped:      rec.Skipped,
		})
	}
	return m
}

// Save writes the manifest as indented JSON. The file is written to a
// temporary sibling and renamed into place so readers never see a partial file.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(path), 0o750); mkdirErr != nil {
		return fmt.Errorf("creating manifest directory: %w", mkdirErr)
	}

	tmpPath := path + ".tmp"
	//nolint:gosec // manifests are shared with asset pipelines and must be readable.
	if writeErr := os.WriteFile(tmpPath, data, 0o644); writeErr != nil {
		return fmt.Errorf("writing manifest: %w", writeErr)
	}
	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing manifest: %w", renameErr)
	}
	return nil
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err = json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
