package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
)

// ProjectRepository is the in-memory ProjectRepository
type ProjectRepository struct {
	store *Store
}

// NewProjectRepository creates a project repository over the store
func NewProjectRepository(store *Store) authoringRepo.ProjectRepository {
	return &ProjectRepository{store: store}
}

func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	s := r.store
	defer s.lockWrite(ctx)()

	if !project.DocumentType.Valid() {
		return fmt.Errorf("document type '%s': %w", project.DocumentType, domain.ErrValidation)
	}
	project.ID = uuid.NewString()
	s.data.projects[project.ID] = *project
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id, userID string) (*models.Project, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.data.projects[id]
	if !ok || p.UserID != userID {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, userID string) ([]models.Project, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := []models.Project{}
	for _, p := range s.data.projects {
		if p.UserID == userID {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	s := r.store
	defer s.lockWrite(ctx)()

	existing, ok := s.data.projects[project.ID]
	if !ok || existing.UserID != project.UserID {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}
	existing.Title = project.Title
	existing.MainTopic = project.MainTopic
	existing.UpdatedAt = project.UpdatedAt
	s.data.projects[project.ID] = existing
	return nil
}

// Delete removes the project and cascades to its document, ledger and feedback
func (r *ProjectRepository) Delete(ctx context.Context, id, userID string) error {
	s := r.store
	defer s.lockWrite(ctx)()

	p, ok := s.data.projects[id]
	if !ok || p.UserID != userID {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	delete(s.data.projects, id)

	docID, ok := s.data.docByProject[id]
	if !ok {
		return nil
	}
	delete(s.data.docByProject, id)
	delete(s.data.documents, docID)

	kept := s.data.refinements[:0]
	for _, rec := range s.data.refinements {
		if rec.DocumentID != docID {
			kept = append(kept, rec)
		}
	}
	s.data.refinements = kept

	for k := range s.data.feedback {
		if k.documentID == docID {
			delete(s.data.feedback, k)
		}
	}
	return nil
}
