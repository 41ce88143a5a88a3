package authoring

import (
	"context"

	"docsmith/internal/domain/models/authoring"
)

// RefinementRepository is the append-only ledger of refinement prompts and comments.
type RefinementRepository interface {
	// Insert appends a record and fills in ID, CreatedAt and Seq
	Insert(ctx context.Context, rec *authoring.RefinementRecord) error

	// Trim keeps the newest `keep` records of a section and deletes the rest.
	// Returns the number of deleted records.
	Trim(ctx context.Context, documentID, sectionID string, keep int) (int, error)

	// List returns records newest first. Empty sectionID lists every section.
	List(ctx context.Context, documentID, sectionID string, offset, limit int) ([]authoring.RefinementRecord, error)

	// Count returns the number of records matching the List filter
	Count(ctx context.Context, documentID, sectionID string) (int, error)

	// DeleteSections removes the ledger of the given sections
	DeleteSections(ctx context.Context, documentID string, sectionIDs []string) error
}
