// Package output delivers finished specifications: to disk as a per-run
// bundle, and optionally to an external project tracker over HTTP.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ideaforge-dev/ideaforge/internal/workflow"
)

const (
	specJSONName     = "project-spec.json"
	specMarkdownName = "project-spec.md"
	trackerName      = "tracker-import.json"

	dirMode  = 0o755
	fileMode = 0o644
)

// DirSink writes the specification bundle into a per-run subdirectory of a
// base directory. It implements workflow.Sink.
type DirSink struct {
	base string
}

// NewDirSink creates a sink rooted at base.
func NewDirSink(base string) *DirSink {
	return &DirSink{base: base}
}

// Persist writes project-spec.json, project-spec.md and tracker-import.json
// under <base>/<runID>/. It returns the paths of every file it managed to
// write, even when a later file failed.
func (s *DirSink) Persist(_ context.Context, runID string, spec *workflow.Specification) ([]string, error) {
	dir := filepath.Join(s.base, runID)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("output: create run directory: %w", err)
	}

	specJSON, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("output: encode specification: %w", err)
	}
	trackerJSON, err := json.MarshalIndent(TrackerImport(spec), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("output: encode tracker import: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{specJSONName, specJSON},
		{specMarkdownName, []byte(RenderMarkdown(spec))},
		{trackerName, trackerJSON},
	}

	var paths []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, fileMode); err != nil {
			return paths, fmt.Errorf("output: write %s: %w", f.name, err)
		}
		paths = append(paths, path)
	}

	log.Printf("[output] wrote %d file(s) to %s", len(paths), dir)
	return paths, nil
}

// ImportPayload is the shape the project tracker's import endpoint accepts.
type ImportPayload struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	GeneratedAt time.Time        `json:"generated_at"`
	Documents   []ImportDocument `json:"documents"`
}

// ImportDocument is one named section of the import payload.
type ImportDocument struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// TrackerImport projects a specification into the tracker import shape.
func TrackerImport(spec *workflow.Specification) ImportPayload {
	return ImportPayload{
		Title:       spec.Project.Title,
		Description: spec.Project.Description,
		Type:        spec.Project.Type,
		GeneratedAt: spec.GeneratedAt,
		Documents: []ImportDocument{
			{Name: "research", Content: spec.Research},
			{Name: "features", Content: spec.Features},
			{Name: "techstack", Content: spec.Techstack},
			{Name: "reusability", Content: spec.Reusability.Assets},
			{Name: "validation", Content: spec.Validation},
		},
	}
}
