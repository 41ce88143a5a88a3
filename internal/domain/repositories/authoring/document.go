package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// DocumentRepository stores the one document a project owns.
type DocumentRepository interface {
	// Create inserts the document with version 1
	Create(ctx context.Context, doc *authoring.Document) error

	// GetByProject returns the project's document or ErrNotFound
	GetByProject(ctx context.Context, projectID string) (*authoring.Document, error)

	// GetForUpdate reads the document and row-locks it until the surrounding
	// transaction ends. Must be called inside TransactionManager.ExecTx.
	GetForUpdate(ctx context.Context, documentID string) (*authoring.Document, error)

	// UpdateContent replaces the content column wholesale and stores version
	UpdateContent(ctx context.Context, doc *authoring.Document) error

	// UpdateStructure replaces structure, content and version together
	UpdateStructure(ctx context.Context, doc *authoring.Document) error
}
