package authoring

import (
	"context"
	"time"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
)

// contentStore is the single write path for Document.Content. Every write
// locks the document row, replaces the whole content map and bumps the
// version by exactly one. Writes must run inside a transaction.
type contentStore struct {
	docs authoringRepo.DocumentRepository
	now  func() time.Time
}

// Read returns the current text of a section
func (c *contentStore) Read(doc *models.Document, sectionID string) (string, bool) {
	return doc.Content.Get(sectionID)
}

// Create stores the first text of a section. Fails with ContentExists if
// the section was generated in the meantime.
func (c *contentStore) Create(ctx context.Context, documentID, sectionID, text string) (*models.Document, error) {
	return c.write(ctx, documentID, sectionID, text, func(doc *models.Document) error {
		if doc.HasContent(sectionID) {
			return domain.NewSectionError(domain.ErrContentExists, sectionID)
		}
		return nil
	})
}

// Replace overwrites existing text. Fails with NoContentToRefine if the
// section lost its content (structure reconfigured) in the meantime.
func (c *contentStore) Replace(ctx context.Context, documentID, sectionID, text string) (*models.Document, error) {
	return c.write(ctx, documentID, sectionID, text, func(doc *models.Document) error {
		if !doc.HasContent(sectionID) {
			return domain.NewSectionError(domain.ErrNoContentToRefine, sectionID)
		}
		return nil
	})
}

func (c *contentStore) write(ctx context.Context, documentID, sectionID, text string, check func(*models.Document) error) (*models.Document, error) {
	doc, err := c.docs.GetForUpdate(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if _, ok := doc.Structure.Find(sectionID); !ok {
		return nil, domain.NewSectionError(domain.ErrSectionNotFound, sectionID)
	}
	if err := check(doc); err != nil {
		return nil, err
	}

	// New map; the previous value stays untouched for anyone holding it
	doc.Content = doc.Content.With(sectionID, text)
	doc.Version++
	doc.UpdatedAt = c.now()

	if err := c.docs.UpdateContent(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
