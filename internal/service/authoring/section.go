package authoring

import (
	"context"
	"fmt"

	"docsmith/internal/config"
	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// sectionService resolves the caller's project and hands off to the orchestrator
type sectionService struct {
	projectRepo  authoringRepo.ProjectRepository
	orchestrator *Orchestrator
}

// NewSectionService creates a new section service
func NewSectionService(projectRepo authoringRepo.ProjectRepository, orchestrator *Orchestrator) authoringSvc.SectionService {
	return &sectionService{projectRepo: projectRepo, orchestrator: orchestrator}
}

func (s *sectionService) GenerateSection(ctx context.Context, projectID, userID, sectionID string) (*authoringSvc.SectionResult, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return s.orchestrator.Generate(ctx, project, sectionID)
}

func (s *sectionService) RefineSection(ctx context.Context, projectID, userID string, req *authoringSvc.RefineRequest) (*authoringSvc.SectionResult, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.SectionID, validation.Required),
		validation.Field(&req.Prompt,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxRefinementPromptLength),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return s.orchestrator.Refine(ctx, project, req.SectionID, req.Prompt)
}

func (s *sectionService) AddComment(ctx context.Context, projectID, userID string, req *authoringSvc.CommentRequest) (*models.RefinementRecord, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.SectionID, validation.Required),
		validation.Field(&req.Comment,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxCommentLength),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return s.orchestrator.AddComment(ctx, project, req.SectionID, req.Comment)
}

func (s *sectionService) SetFeedback(ctx context.Context, projectID, userID, sectionID string, reaction *models.Reaction) (*authoringSvc.FeedbackResult, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return s.orchestrator.SetFeedback(ctx, project, sectionID, reaction)
}

func (s *sectionService) FeedbackMap(ctx context.Context, projectID, userID string) (map[string]models.Reaction, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return s.orchestrator.FeedbackMap(ctx, project)
}

func (s *sectionService) History(ctx context.Context, projectID, userID string, q authoringSvc.HistoryQuery) (*models.RefinementPage, error) {
	if q.Offset < 0 {
		return nil, fmt.Errorf("%w: offset: must be no less than 0", domain.ErrValidation)
	}
	if q.Limit <= 0 || q.Limit > config.MaxHistoryPageSize {
		q.Limit = config.MaxHistoryPageSize
	}

	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	return s.orchestrator.History(ctx, project, q)
}
