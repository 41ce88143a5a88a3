package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
)

// DocumentRepository is the in-memory DocumentRepository. Documents are
// cloned on the way in and out so callers never share maps with the store.
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository creates a document repository over the store
func NewDocumentRepository(store *Store) authoringRepo.DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	s := r.store
	defer s.lockWrite(ctx)()

	if _, ok := s.data.projects[doc.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", doc.ProjectID, domain.ErrNotFound)
	}
	if _, exists := s.data.docByProject[doc.ProjectID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("project %s already has a document", doc.ProjectID),
			ResourceType: "document",
			ResourceID:   doc.ProjectID,
		}
	}

	doc.ID = uuid.NewString()
	if doc.Content == nil {
		doc.Content = models.SectionContent{}
	}
	s.data.documents[doc.ID] = doc.Clone()
	s.data.docByProject[doc.ProjectID] = doc.ID
	return nil
}

func (r *DocumentRepository) GetByProject(ctx context.Context, projectID string) (*models.Document, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	docID, ok := s.data.docByProject[projectID]
	if !ok {
		return nil, fmt.Errorf("document for project %s: %w", projectID, domain.ErrNotFound)
	}
	return s.data.documents[docID].Clone(), nil
}

// GetForUpdate requires a transaction; the store serializes transactions,
// so the returned document cannot change until it ends.
func (r *DocumentRepository) GetForUpdate(ctx context.Context, documentID string) (*models.Document, error) {
	if !inTx(ctx) {
		return nil, errors.New("get document for update: no transaction in context")
	}

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.data.documents[documentID]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	return doc.Clone(), nil
}

func (r *DocumentRepository) UpdateContent(ctx context.Context, doc *models.Document) error {
	s := r.store
	defer s.lockWrite(ctx)()

	stored, ok := s.data.documents[doc.ID]
	if !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	updated := stored.Clone()
	updated.Content = doc.Content.Clone()
	updated.Version = doc.Version
	updated.UpdatedAt = doc.UpdatedAt
	s.data.documents[doc.ID] = updated
	return nil
}

func (r *DocumentRepository) UpdateStructure(ctx context.Context, doc *models.Document) error {
	s := r.store
	defer s.lockWrite(ctx)()

	stored, ok := s.data.documents[doc.ID]
	if !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	updated := doc.Clone()
	updated.ProjectID = stored.ProjectID
	updated.CreatedAt = stored.CreatedAt
	s.data.documents[doc.ID] = updated
	return nil
}
