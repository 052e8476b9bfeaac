package output

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge-dev/ideaforge/internal/knowledge"
	"github.com/ideaforge-dev/ideaforge/internal/workflow"
)

func sampleSpec() *workflow.Specification {
	return &workflow.Specification{
		Version:     workflow.SpecVersion,
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Project: workflow.Project{
			Title:       "Recipe Platform",
			Description: "A recipe sharing platform for home cooks.",
			Type:        "web-app",
		},
		Research:  "Market research report.",
		Features:  "1. Upload 2. Search",
		Techstack: "Go, Postgres, React",
		Reusability: workflow.Reusability{
			Assets: "Auth service",
			SimilarProjects: []knowledge.Record{
				{ID: "p1", Title: "CookBook", Description: "older recipe app"},
			},
		},
		Validation: "GO",
	}
}

func TestDirSinkWritesBundle(t *testing.T) {
	base := t.TempDir()
	sink := NewDirSink(base)

	paths, err := sink.Persist(context.Background(), "run-42", sampleSpec())
	require.NoError(t, err)
	require.Len(t, paths, 3)

	dir := filepath.Join(base, "run-42")
	for _, name := range []string{"project-spec.json", "project-spec.md", "tracker-import.json"} {
		assert.Contains(t, paths, filepath.Join(dir, name))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "project-spec.json"))
	require.NoError(t, err)
	var decoded workflow.Specification
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "Recipe Platform", decoded.Project.Title)
	assert.Equal(t, "GO", decoded.Validation)

	md, err := os.ReadFile(filepath.Join(dir, "project-spec.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Recipe Platform")
	assert.Contains(t, string(md), "## Validation")
}

func TestDirSinkUnwritableBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(base, []byte("not a directory"), 0o644))

	sink := NewDirSink(base)
	_, err := sink.Persist(context.Background(), "run-43", sampleSpec())
	assert.Error(t, err)
}

func TestRenderMarkdownSections(t *testing.T) {
	md := RenderMarkdown(sampleSpec())

	for _, want := range []string{
		"# Recipe Platform",
		"## Market Research",
		"## MVP Features",
		"## Technology Stack",
		"## Reusable Assets",
		"## Similar Past Projects",
		"**CookBook**",
		"## Validation",
	} {
		assert.Contains(t, md, want)
	}
}

func TestRenderMarkdownSkipsEmptySections(t *testing.T) {
	spec := sampleSpec()
	spec.Validation = ""
	spec.Reusability.SimilarProjects = nil

	md := RenderMarkdown(spec)
	assert.NotContains(t, md, "## Validation")
	assert.NotContains(t, md, "## Similar Past Projects")
}

func TestHTTPPublisher(t *testing.T) {
	var got ImportPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	pub := NewHTTPPublisher(srv.URL, "secret-token")
	require.NoError(t, pub.Publish(context.Background(), sampleSpec()))

	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, "Recipe Platform", got.Title)
	require.Len(t, got.Documents, 5)
	assert.Equal(t, "research", got.Documents[0].Name)
}

func TestHTTPPublisherRejectedByTracker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad payload", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	pub := NewHTTPPublisher(srv.URL, "")
	err := pub.Publish(context.Background(), sampleSpec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
