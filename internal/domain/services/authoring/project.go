package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	UserID       string `json:"-"`
	Title        string `json:"title"`
	DocumentType string `json:"document_type"`
	MainTopic    string `json:"main_topic"`
}

// UpdateProjectRequest represents a partial project update.
// The document type is fixed at creation.
type UpdateProjectRequest struct {
	Title     *string `json:"title,omitempty"`
	MainTopic *string `json:"main_topic,omitempty"`
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*authoring.Project, error)

	// GetProject retrieves a project owned by userID
	GetProject(ctx context.Context, id, userID string) (*authoring.Project, error)

	// ListProjects retrieves all projects for a user, most recently updated first
	ListProjects(ctx context.Context, userID string) ([]authoring.Project, error)

	UpdateProject(ctx context.Context, id, userID string, req *UpdateProjectRequest) (*authoring.Project, error)

	// DeleteProject removes the project together with its document, ledger and feedback
	DeleteProject(ctx context.Context, id, userID string) error
}
