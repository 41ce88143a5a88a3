package authoring

import (
	"context"
	"time"

	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
)

// ledger appends refinement metadata and trims each section to the newest
// `keep` records in the same transaction as the insert.
type ledger struct {
	repo authoringRepo.RefinementRepository
	keep int
	now  func() time.Time
}

// Append records a prompt or a comment for a section
func (l *ledger) Append(ctx context.Context, documentID, sectionID string, prompt, comment *string) (*models.RefinementRecord, int, error) {
	rec := &models.RefinementRecord{
		DocumentID: documentID,
		SectionID:  sectionID,
		Prompt:     prompt,
		Comment:    comment,
		CreatedAt:  l.now(),
	}
	if err := l.repo.Insert(ctx, rec); err != nil {
		return nil, 0, err
	}

	trimmed, err := l.repo.Trim(ctx, documentID, sectionID, l.keep)
	if err != nil {
		return nil, 0, err
	}
	return rec, trimmed, nil
}

// Page lists a document's ledger newest first
func (l *ledger) Page(ctx context.Context, documentID, sectionID string, offset, limit int) (*models.RefinementPage, error) {
	items, err := l.repo.List(ctx, documentID, sectionID, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := l.repo.Count(ctx, documentID, sectionID)
	if err != nil {
		return nil, err
	}
	return &models.RefinementPage{Items: items, Total: total, Offset: offset, Limit: limit}, nil
}
