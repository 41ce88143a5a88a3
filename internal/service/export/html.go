package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	models "docsmith/internal/domain/models/authoring"
)

// HTMLExporter renders the Markdown export to a standalone HTML page.
type HTMLExporter struct {
	md goldmark.Markdown
}

// NewHTMLExporter creates an exporter with GitHub-flavoured Markdown enabled
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

func (e *HTMLExporter) Format() string      { return "html" }
func (e *HTMLExporter) ContentType() string { return "text/html; charset=utf-8" }
func (e *HTMLExporter) Extension() string   { return "html" }

func (e *HTMLExporter) Export(project *models.Project, doc *models.Document, style *models.TemplateConfig) ([]byte, error) {
	var body bytes.Buffer
	if err := e.md.Convert([]byte(renderMarkdown(project, doc)), &body); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&out, "<title>%s</title>\n", html.EscapeString(project.Title))
	if style != nil {
		out.WriteString("<style>\n")
		out.WriteString(stylesheet(style))
		out.WriteString("</style>\n")
	}
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}

// stylesheet maps a template config onto the rendered page. Templates are
// validated on write, so every value is a hex color, a plain font name, a
// number or a known keyword.
func stylesheet(c *models.TemplateConfig) string {
	var b bytes.Buffer

	padding := fmt.Sprintf("%dpt", c.Spacing.ContentPadding)
	if m := c.Layout.DocumentMargins; m != nil {
		padding = fmt.Sprintf("%gin %gin %gin %gin", m.Top, m.Right, m.Bottom, m.Left)
	}
	fmt.Fprintf(&b, "body { font-family: %s, sans-serif; font-size: %dpt; font-weight: %s; color: %s; background: %s; line-height: %g; text-align: %s; padding: %s; }\n",
		c.Typography.BodyFont, c.Typography.BodySize, c.Typography.BodyWeight,
		c.ColorPalette.Body, c.ColorPalette.Background, c.Typography.LineHeight,
		c.Styles.BodyAlignment, padding)
	fmt.Fprintf(&b, "h1 { font-family: %s, sans-serif; font-size: %dpt; font-weight: %s; color: %s; text-align: %s; margin-bottom: %dpt; }\n",
		c.Typography.HeadingFont, c.Typography.HeadingSize, c.Typography.HeadingWeight,
		c.ColorPalette.Primary, c.Styles.TitleAlignment, c.Spacing.TitleMarginBottom)
	fmt.Fprintf(&b, "h2 { font-family: %s, sans-serif; font-size: %dpt; font-weight: %s; color: %s; text-align: %s; margin-top: %dpt; }\n",
		c.Typography.HeadingFont, sectionHeadingSize(c.Typography), c.Typography.HeadingWeight,
		c.ColorPalette.Heading, c.Styles.HeadingAlignment, c.Spacing.SectionMargin)
	fmt.Fprintf(&b, "p, li { margin-bottom: %dpt; }\n", c.Spacing.ParagraphSpacing)
	fmt.Fprintf(&b, "ul { list-style-type: %s; }\n", listStyle(c.Styles.BulletStyle))
	fmt.Fprintf(&b, "a { color: %s; }\n", c.ColorPalette.Secondary)
	fmt.Fprintf(&b, "hr { border: 0; border-top: 1px solid %s; }\n", c.ColorPalette.Accent)
	return b.String()
}

// sectionHeadingSize is two thirds of the title size, never below body text.
func sectionHeadingSize(t models.Typography) int {
	size := t.HeadingSize * 2 / 3
	if size < t.BodySize {
		return t.BodySize
	}
	return size
}

func listStyle(bullet string) string {
	if bullet == "" || bullet == "default" {
		return "disc"
	}
	return bullet
}
