package authoring

import (
	"context"
	"errors"
	"log/slog"

	"docsmith/internal/domain"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"
)

// generationService walks a whole document through the orchestrator
type generationService struct {
	projectRepo  authoringRepo.ProjectRepository
	docRepo      authoringRepo.DocumentRepository
	orchestrator *Orchestrator
	logger       *slog.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	projectRepo authoringRepo.ProjectRepository,
	docRepo authoringRepo.DocumentRepository,
	orchestrator *Orchestrator,
	logger *slog.Logger,
) authoringSvc.GenerationService {
	return &generationService{
		projectRepo:  projectRepo,
		docRepo:      docRepo,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// GenerateAll generates sections without content in document order. Each
// section commits on its own, so later sections see earlier ones as context.
func (s *generationService) GenerateAll(ctx context.Context, projectID, userID string) (*authoringSvc.GenerateAllResult, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	doc, err := s.docRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := &authoringSvc.GenerateAllResult{
		Generated: []string{},
		Skipped:   []string{},
		Failed:    []authoringSvc.SectionFailure{},
		Version:   doc.Version,
	}

	for _, sec := range doc.Structure.Sorted() {
		if doc.HasContent(sec.ID) {
			result.Skipped = append(result.Skipped, sec.ID)
			continue
		}

		res, err := s.orchestrator.Generate(ctx, project, sec.ID)
		switch {
		case err == nil:
			result.Generated = append(result.Generated, sec.ID)
			result.Version = res.Version
		case errors.Is(err, domain.ErrContentExists):
			// Generated concurrently by another request
			result.Skipped = append(result.Skipped, sec.ID)
		case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrSectionNotFound):
			result.Failed = append(result.Failed, authoringSvc.SectionFailure{SectionID: sec.ID, Error: err.Error()})
		default:
			return nil, err
		}
	}

	s.logger.Info("document generation finished",
		"project_id", projectID,
		"document_id", doc.ID,
		"generated", len(result.Generated),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
		"version", result.Version,
	)
	return result, nil
}

// Status reports generation progress
func (s *generationService) Status(ctx context.Context, projectID, userID string) (*authoringSvc.GenerationStatus, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID, userID); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByProject(ctx, projectID)
	if errors.Is(err, domain.ErrNotFound) {
		return &authoringSvc.GenerationStatus{Status: authoringSvc.StatusNotConfigured}, nil
	}
	if err != nil {
		return nil, err
	}

	st := &authoringSvc.GenerationStatus{Total: len(doc.Structure)}
	for _, sec := range doc.Structure {
		if doc.HasContent(sec.ID) {
			st.Generated++
		}
	}
	switch {
	case st.Total == 0:
		st.Status = authoringSvc.StatusNotConfigured
	case st.Generated == 0:
		st.Status = authoringSvc.StatusEmpty
	case st.Generated < st.Total:
		st.Status = authoringSvc.StatusPartial
	default:
		st.Status = authoringSvc.StatusCompleted
	}
	if st.Total > 0 {
		st.ProgressPercentage = float64(st.Generated) * 100 / float64(st.Total)
	}
	return st, nil
}
