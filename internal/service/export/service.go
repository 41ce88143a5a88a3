// Package export renders documents into downloadable files.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"
)

// exportService implements the ExportService interface
type exportService struct {
	projectRepo authoringRepo.ProjectRepository
	docRepo     authoringRepo.DocumentRepository
	templates   authoringSvc.TemplateService
	exporters   map[string]authoringSvc.DocumentExporter
	now         func() time.Time
	logger      *slog.Logger
}

// NewExportService creates an export service over the given exporters.
// With none given, Markdown and HTML are registered. A nil templates
// service exports everything unstyled.
func NewExportService(
	projectRepo authoringRepo.ProjectRepository,
	docRepo authoringRepo.DocumentRepository,
	templates authoringSvc.TemplateService,
	logger *slog.Logger,
	exporters ...authoringSvc.DocumentExporter,
) authoringSvc.ExportService {
	if len(exporters) == 0 {
		exporters = []authoringSvc.DocumentExporter{MarkdownExporter{}, NewHTMLExporter()}
	}
	byFormat := make(map[string]authoringSvc.DocumentExporter, len(exporters))
	for _, e := range exporters {
		byFormat[e.Format()] = e
	}
	return &exportService{
		projectRepo: projectRepo,
		docRepo:     docRepo,
		templates:   templates,
		exporters:   byFormat,
		now:         time.Now,
		logger:      logger,
	}
}

// Export renders the project's document in the requested format
func (s *exportService) Export(ctx context.Context, req *authoringSvc.ExportRequest) (*authoringSvc.ExportResult, error) {
	exporter, ok := s.exporters[strings.ToLower(req.Format)]
	if !ok {
		return nil, fmt.Errorf("%w: format: must be one of %s", domain.ErrValidation, strings.Join(s.Formats(), ", "))
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID, req.UserID)
	if err != nil {
		return nil, err
	}
	doc, err := s.docRepo.GetByProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.resolveTemplate(ctx, project, req)
	if err != nil {
		return nil, err
	}

	var style *models.TemplateConfig
	templateID := ""
	if tmpl != nil {
		style = &tmpl.Config
		templateID = tmpl.ID
	}

	body, err := exporter.Export(project, doc, style)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document exported",
		"project_id", req.ProjectID,
		"document_id", doc.ID,
		"format", exporter.Format(),
		"template_id", templateID,
		"version", doc.Version,
		"bytes", len(body),
	)

	return &authoringSvc.ExportResult{
		Filename:    exportFilename(project, s.now(), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Body:        body,
	}, nil
}

// resolveTemplate returns the requested template, else the user's default
// for the project's type. No template at all is not an error.
func (s *exportService) resolveTemplate(ctx context.Context, project *models.Project, req *authoringSvc.ExportRequest) (*models.Template, error) {
	if s.templates == nil {
		if req.TemplateID != "" {
			return nil, fmt.Errorf("%w: template_id: templates are not available", domain.ErrValidation)
		}
		return nil, nil
	}

	if req.TemplateID != "" {
		tmpl, err := s.templates.GetTemplate(ctx, req.TemplateID, req.UserID)
		if err != nil {
			return nil, err
		}
		if tmpl.DocumentType != project.DocumentType {
			return nil, fmt.Errorf("%w: template_id: template is for %s documents, project is %s",
				domain.ErrValidation, tmpl.DocumentType, project.DocumentType)
		}
		return tmpl, nil
	}

	tmpl, err := s.templates.DefaultTemplate(ctx, req.UserID, string(project.DocumentType))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return tmpl, err
}

// Formats lists the registered formats, sorted
func (s *exportService) Formats() []string {
	formats := make([]string, 0, len(s.exporters))
	for f := range s.exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// exportFilename keeps letters, digits, space, '-' and '_' of the title,
// turns spaces into underscores and appends a UTC timestamp.
func exportFilename(project *models.Project, now time.Time, ext string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			return r
		}
		return -1
	}, project.Title)
	safe = strings.ReplaceAll(strings.TrimSpace(safe), " ", "_")
	if safe == "" {
		safe = "document"
	}
	return fmt.Sprintf("%s_%s.%s", safe, now.UTC().Format("20060102_150405"), ext)
}
