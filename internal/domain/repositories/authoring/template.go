package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// TemplateRepository defines data access operations for style templates
type TemplateRepository interface {
	// Create inserts a template and fills in its ID
	Create(ctx context.Context, tmpl *authoring.Template) error

	// GetByID retrieves a template owned by userID
	GetByID(ctx context.Context, id, userID string) (*authoring.Template, error)

	// List returns a user's templates, default first then newest first.
	// An empty docType lists every type.
	List(ctx context.Context, userID string, docType authoring.DocumentType) ([]authoring.Template, error)

	// Update replaces name, description, config, flags and updated_at
	Update(ctx context.Context, tmpl *authoring.Template) error

	Delete(ctx context.Context, id, userID string) error

	// ClearDefault unsets is_default on the user's templates of docType,
	// except exceptID when it is not empty
	ClearDefault(ctx context.Context, userID string, docType authoring.DocumentType, exceptID string) error
}
