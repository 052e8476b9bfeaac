package workflow

import (
	"strings"
	"time"

	"github.com/ideaforge-dev/ideaforge/agent"
	"github.com/ideaforge-dev/ideaforge/internal/knowledge"
)

// SpecVersion is the schema version stamped on every generated
// specification.
const SpecVersion = "1.0"

// specKey is the context key the consolidation phase writes.
const specKey = "specification"

const titleLimit = 50

// Specification is the consolidated output of one workflow run: every
// agent contribution projected into a single stable document.
type Specification struct {
	Version     string      `json:"version"`
	GeneratedAt time.Time   `json:"generated_at"`
	Project     Project     `json:"project"`
	Research    string      `json:"research"`
	Features    string      `json:"features"`
	Techstack   string      `json:"techstack"`
	Reusability Reusability `json:"reusability"`
	Validation  string      `json:"validation,omitempty"`
}

// Project identifies what is being specified.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Reusability carries the reuse recommendations plus the similar past
// projects the lookup surfaced, when a knowledge backend was configured.
type Reusability struct {
	Assets          string             `json:"assets"`
	SimilarProjects []knowledge.Record `json:"similar_projects,omitempty"`
}

// consolidate projects the accumulated context into a Specification. It is
// a pure function of the context: no generation calls, no I/O. A missing
// required key means an earlier phase did not commit its contribution,
// which is a wiring fault, not a runtime condition.
func consolidate(c agent.Context, now time.Time) (*Specification, error) {
	idea, err := c.RequireString("consolidate", "idea")
	if err != nil {
		return nil, err
	}
	research, err := c.RequireString("consolidate", "research")
	if err != nil {
		return nil, err
	}
	features, err := c.RequireString("consolidate", "features")
	if err != nil {
		return nil, err
	}
	techstack, err := c.RequireString("consolidate", "techstack")
	if err != nil {
		return nil, err
	}
	assets, err := c.RequireString("consolidate", "reusable_assets")
	if err != nil {
		return nil, err
	}

	var similar []knowledge.Record
	if v, ok := c.Get("similar_projects"); ok {
		if records, ok := v.([]knowledge.Record); ok {
			similar = records
		}
	}

	return &Specification{
		Version:     SpecVersion,
		GeneratedAt: now.UTC(),
		Project: Project{
			Title:       extractTitle(idea),
			Description: idea,
			Type:        "web-app",
		},
		Research:  research,
		Features:  features,
		Techstack: techstack,
		Reusability: Reusability{
			Assets:          assets,
			SimilarProjects: similar,
		},
	}, nil
}

// withValidation returns a copy of the specification with the validation
// report attached. The consolidated value stored in the context is never
// mutated.
func (s *Specification) withValidation(report string) *Specification {
	out := *s
	out.Validation = report
	return &out
}

// extractTitle derives a short project title from the idea text: the first
// sentence when there is one, otherwise a prefix of the idea.
func extractTitle(idea string) string {
	idea = strings.TrimSpace(idea)
	if i := strings.IndexAny(idea, ".!?\n"); i > 0 && i <= titleLimit {
		return strings.TrimSpace(idea[:i])
	}
	if len(idea) > titleLimit {
		return strings.TrimSpace(idea[:titleLimit])
	}
	return idea
}
