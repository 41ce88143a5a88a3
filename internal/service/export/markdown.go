package export

import (
	"fmt"
	"strings"

	models "docsmith/internal/domain/models/authoring"
)

// placeholder marks a section that has not been generated. It only appears
// in exported files, never in stored content.
const placeholder = "_[Content not generated]_"

// MarkdownExporter renders a document as a single Markdown file.
// Slides are separated by horizontal rules.
type MarkdownExporter struct{}

func (MarkdownExporter) Format() string      { return "markdown" }
func (MarkdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }
func (MarkdownExporter) Extension() string   { return "md" }

// Export ignores style; Markdown carries no presentation.
func (MarkdownExporter) Export(project *models.Project, doc *models.Document, _ *models.TemplateConfig) ([]byte, error) {
	return []byte(renderMarkdown(project, doc)), nil
}

func renderMarkdown(project *models.Project, doc *models.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", project.Title)
	if project.MainTopic != "" {
		fmt.Fprintf(&b, "_%s_\n\n", project.MainTopic)
	}

	slides := project.DocumentType == models.DocumentTypePowerPoint
	for i, sec := range doc.Structure.Sorted() {
		if slides && i > 0 {
			b.WriteString("---\n\n")
		}
		fmt.Fprintf(&b, "## %s\n\n", sec.Title)

		text, ok := doc.Content.Get(sec.ID)
		if !ok || strings.TrimSpace(text) == "" {
			text = placeholder
		}
		b.WriteString(strings.TrimSpace(text))
		b.WriteString("\n\n")
	}
	return b.String()
}
