package authoring

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docsmith/internal/config"
	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo authoringRepo.ProjectRepository
	now         func() time.Time
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo authoringRepo.ProjectRepository,
	logger *slog.Logger,
) authoringSvc.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		now:         time.Now,
		logger:      logger,
	}
}

// CreateProject creates a new project
func (s *projectService) CreateProject(ctx context.Context, req *authoringSvc.CreateProjectRequest) (*models.Project, error) {
	if err := validateCreateProject(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.now()
	project := &models.Project{
		UserID:       req.UserID,
		Title:        strings.TrimSpace(req.Title),
		DocumentType: models.DocumentType(req.DocumentType),
		MainTopic:    strings.TrimSpace(req.MainTopic),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"document_type", project.DocumentType,
		"user_id", req.UserID,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id, userID string) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id, userID)
}

// ListProjects retrieves all projects for a user
func (s *projectService) ListProjects(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projectRepo.List(ctx, userID)
}

// UpdateProject updates title and/or main topic
func (s *projectService) UpdateProject(ctx context.Context, id, userID string, req *authoringSvc.UpdateProjectRequest) (*models.Project, error) {
	if err := validateUpdateProject(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.MainTopic != nil {
		project.MainTopic = strings.TrimSpace(*req.MainTopic)
	}
	project.UpdatedAt = s.now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"user_id", userID,
	)

	return project, nil
}

// DeleteProject deletes a project and everything under it
func (s *projectService) DeleteProject(ctx context.Context, id, userID string) error {
	// Verify ownership first so another user's project reads as not found
	if _, err := s.projectRepo.GetByID(ctx, id, userID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info("project deleted",
		"id", id,
		"user_id", userID,
	)

	return nil
}

func validateCreateProject(req *authoringSvc.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Title,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxProjectTitleLength),
		),
		validation.Field(&req.DocumentType,
			validation.Required,
			validation.In(string(models.DocumentTypeWord), string(models.DocumentTypePowerPoint)).
				Error("must be 'word' or 'powerpoint'"),
		),
		validation.Field(&req.MainTopic,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxMainTopicLength),
		),
	)
}

func validateUpdateProject(req *authoringSvc.UpdateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.NilOrNotEmpty,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxProjectTitleLength),
		),
		validation.Field(&req.MainTopic,
			validation.NilOrNotEmpty,
			validation.By(notBlank),
			validation.RuneLength(1, config.MaxMainTopicLength),
		),
	)
}

// notBlank rejects strings that are empty after trimming.
// ozzo passes pointer fields through dereferenced; nil is left to NilOrNotEmpty.
func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be blank")
	}
	return nil
}
