package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// DocumentExporter renders a document into one file format.
// Exporters only read structure and content. A nil style renders unstyled;
// formats without styling ignore it.
type DocumentExporter interface {
	Format() string
	ContentType() string
	Extension() string
	Export(project *authoring.Project, doc *authoring.Document, style *authoring.TemplateConfig) ([]byte, error)
}

// ExportRequest selects what to render. An empty TemplateID uses the
// user's default template for the project's document type, if any.
type ExportRequest struct {
	ProjectID  string
	UserID     string
	Format     string
	TemplateID string
}

// ExportResult is a rendered file ready to be served.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders a project's document.
type ExportService interface {
	Export(ctx context.Context, req *ExportRequest) (*ExportResult, error)
	Formats() []string
}
