package authoring

import (
	"context"
	"errors"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
)

// feedbackRegister runs the three-state toggle. Callers hold the document
// lock, so the read of the current state and the save cannot interleave
// with another click.
type feedbackRegister struct {
	repo authoringRepo.FeedbackRepository
}

// Set applies a click and returns the stored record, nil when neutral.
func (f *feedbackRegister) Set(ctx context.Context, documentID, sectionID string, click *models.Reaction) (*models.FeedbackRecord, models.FeedbackState, error) {
	current, err := f.state(ctx, documentID, sectionID)
	if err != nil {
		return nil, models.FeedbackNone, err
	}

	next := current.Next(click)
	if err := f.repo.Save(ctx, documentID, sectionID, next); err != nil {
		return nil, models.FeedbackNone, err
	}
	if next == models.FeedbackNone {
		return nil, next, nil
	}

	rec, err := f.repo.Get(ctx, documentID, sectionID)
	if err != nil {
		return nil, models.FeedbackNone, err
	}
	return rec, next, nil
}

// Reset forces a section back to neutral
func (f *feedbackRegister) Reset(ctx context.Context, documentID, sectionID string) error {
	return f.repo.Save(ctx, documentID, sectionID, models.FeedbackNone)
}

// Map projects the stored reactions of a document
func (f *feedbackRegister) Map(ctx context.Context, documentID string) (map[string]models.Reaction, error) {
	records, err := f.repo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Reaction, len(records))
	for _, rec := range records {
		out[rec.SectionID] = rec.Reaction
	}
	return out, nil
}

func (f *feedbackRegister) state(ctx context.Context, documentID, sectionID string) (models.FeedbackState, error) {
	rec, err := f.repo.Get(ctx, documentID, sectionID)
	if errors.Is(err, domain.ErrNotFound) {
		return models.FeedbackNone, nil
	}
	if err != nil {
		return models.FeedbackNone, err
	}
	return models.StateOf(&rec.Reaction), nil
}
