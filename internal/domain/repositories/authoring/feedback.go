package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// FeedbackRepository stores at most one reaction per (document, section).
// Transitions are computed by authoring.FeedbackState; the repository only
// persists the resulting state.
type FeedbackRepository interface {
	// Save persists a state in one statement: upsert the reaction, or
	// delete the row when the state is NONE.
	Save(ctx context.Context, documentID, sectionID string, state authoring.FeedbackState) error

	// Get returns the section's row or ErrNotFound
	Get(ctx context.Context, documentID, sectionID string) (*authoring.FeedbackRecord, error)

	// ListByDocument returns every stored reaction of a document
	ListByDocument(ctx context.Context, documentID string) ([]authoring.FeedbackRecord, error)

	// DeleteSections removes the rows of the given sections
	DeleteSections(ctx context.Context, documentID string, sectionIDs []string) error
}
