package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts a project and fills in its ID and timestamps
	Create(ctx context.Context, project *authoring.Project) error

	// GetByID retrieves a project owned by userID
	GetByID(ctx context.Context, id, userID string) (*authoring.Project, error)

	// List retrieves all projects for a user, ordered by updated_at DESC
	List(ctx context.Context, userID string) ([]authoring.Project, error)

	// Update updates title, main topic and updated_at
	Update(ctx context.Context, project *authoring.Project) error

	// Delete removes a project; its document, ledger and feedback go with it
	Delete(ctx context.Context, id, userID string) error
}
