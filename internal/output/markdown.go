package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/ideaforge-dev/ideaforge/internal/workflow"
)

// RenderMarkdown renders the human-readable form of a specification.
func RenderMarkdown(spec *workflow.Specification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", spec.Project.Title)
	fmt.Fprintf(&b, "> %s\n\n", spec.Project.Description)
	fmt.Fprintf(&b, "- **Type:** %s\n", spec.Project.Type)
	fmt.Fprintf(&b, "- **Specification version:** %s\n", spec.Version)
	fmt.Fprintf(&b, "- **Generated:** %s\n\n", spec.GeneratedAt.Format(time.RFC3339))

	section(&b, "Market Research", spec.Research)
	section(&b, "MVP Features", spec.Features)
	section(&b, "Technology Stack", spec.Techstack)
	section(&b, "Reusable Assets", spec.Reusability.Assets)

	if len(spec.Reusability.SimilarProjects) > 0 {
		b.WriteString("## Similar Past Projects\n\n")
		for _, rec := range spec.Reusability.SimilarProjects {
			fmt.Fprintf(&b, "- **%s**: %s\n", rec.Title, rec.Description)
		}
		b.WriteString("\n")
	}

	section(&b, "Validation", spec.Validation)

	return b.String()
}

func section(b *strings.Builder, title, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, body)
}
