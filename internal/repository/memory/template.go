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

// TemplateRepository is the in-memory TemplateRepository
type TemplateRepository struct {
	store *Store
}

// NewTemplateRepository creates a template repository over the store
func NewTemplateRepository(store *Store) authoringRepo.TemplateRepository {
	return &TemplateRepository{store: store}
}

func (r *TemplateRepository) Create(ctx context.Context, tmpl *models.Template) error {
	s := r.store
	defer s.lockWrite(ctx)()

	if !tmpl.DocumentType.Valid() {
		return fmt.Errorf("document type '%s': %w", tmpl.DocumentType, domain.ErrValidation)
	}
	if tmpl.IsDefault {
		for _, t := range s.data.templates {
			if t.UserID == tmpl.UserID && t.DocumentType == tmpl.DocumentType && t.IsDefault {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("a default %s template already exists", tmpl.DocumentType),
					ResourceType: "template",
					ResourceID:   t.ID,
				}
			}
		}
	}
	tmpl.ID = uuid.NewString()
	s.data.templates[tmpl.ID] = cloneTemplate(*tmpl)
	return nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id, userID string) (*models.Template, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data.templates[id]
	if !ok || t.UserID != userID {
		return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	out := cloneTemplate(t)
	return &out, nil
}

func (r *TemplateRepository) List(ctx context.Context, userID string, docType models.DocumentType) ([]models.Template, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	templates := []models.Template{}
	for _, t := range s.data.templates {
		if t.UserID != userID || (docType != "" && t.DocumentType != docType) {
			continue
		}
		templates = append(templates, cloneTemplate(t))
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].IsDefault != templates[j].IsDefault {
			return templates[i].IsDefault
		}
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})
	return templates, nil
}

func (r *TemplateRepository) Update(ctx context.Context, tmpl *models.Template) error {
	s := r.store
	defer s.lockWrite(ctx)()

	existing, ok := s.data.templates[tmpl.ID]
	if !ok || existing.UserID != tmpl.UserID {
		return fmt.Errorf("template %s: %w", tmpl.ID, domain.ErrNotFound)
	}
	if tmpl.IsDefault {
		for _, t := range s.data.templates {
			if t.ID != tmpl.ID && t.UserID == existing.UserID && t.DocumentType == existing.DocumentType && t.IsDefault {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("a default %s template already exists", existing.DocumentType),
					ResourceType: "template",
					ResourceID:   t.ID,
				}
			}
		}
	}

	updated := cloneTemplate(*tmpl)
	updated.DocumentType = existing.DocumentType
	updated.CreatedAt = existing.CreatedAt
	s.data.templates[tmpl.ID] = updated
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, id, userID string) error {
	s := r.store
	defer s.lockWrite(ctx)()

	t, ok := s.data.templates[id]
	if !ok || t.UserID != userID {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}
	delete(s.data.templates, id)
	return nil
}

func (r *TemplateRepository) ClearDefault(ctx context.Context, userID string, docType models.DocumentType, exceptID string) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for id, t := range s.data.templates {
		if t.UserID == userID && t.DocumentType == docType && t.IsDefault && id != exceptID {
			t.IsDefault = false
			s.data.templates[id] = t
		}
	}
	return nil
}

// cloneTemplate copies the pointer fields so callers never share them with the store
func cloneTemplate(t models.Template) models.Template {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	if m := t.Config.Layout.DocumentMargins; m != nil {
		copied := *m
		t.Config.Layout.DocumentMargins = &copied
	}
	return t
}
