package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
)

// FeedbackRepository is the in-memory feedback register. The map key is the
// (document, section) pair, so there is never more than one row per section.
type FeedbackRepository struct {
	store *Store
}

// NewFeedbackRepository creates a feedback repository over the store
func NewFeedbackRepository(store *Store) authoringRepo.FeedbackRepository {
	return &FeedbackRepository{store: store}
}

// Save upserts or deletes under the store locks
func (r *FeedbackRepository) Save(ctx context.Context, documentID, sectionID string, state models.FeedbackState) error {
	if !state.Valid() {
		return fmt.Errorf("feedback state %d: %w", int(state), domain.ErrInvalidReaction)
	}

	s := r.store
	defer s.lockWrite(ctx)()

	if _, ok := s.data.documents[documentID]; !ok {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	key := feedbackKey{documentID: documentID, sectionID: sectionID}
	reaction := state.Reaction()
	if reaction == nil {
		delete(s.data.feedback, key)
		return nil
	}

	now := time.Now()
	rec, exists := s.data.feedback[key]
	if !exists {
		rec = models.FeedbackRecord{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			SectionID:  sectionID,
			CreatedAt:  now,
		}
	}
	rec.Reaction = *reaction
	rec.UpdatedAt = now
	s.data.feedback[key] = rec
	return nil
}

func (r *FeedbackRepository) Get(ctx context.Context, documentID, sectionID string) (*models.FeedbackRecord, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data.feedback[feedbackKey{documentID: documentID, sectionID: sectionID}]
	if !ok {
		return nil, fmt.Errorf("feedback for section '%s': %w", sectionID, domain.ErrNotFound)
	}
	return &rec, nil
}

func (r *FeedbackRepository) ListByDocument(ctx context.Context, documentID string) ([]models.FeedbackRecord, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	records := []models.FeedbackRecord{}
	for k, rec := range s.data.feedback {
		if k.documentID == documentID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].SectionID < records[j].SectionID })
	return records, nil
}

func (r *FeedbackRepository) DeleteSections(ctx context.Context, documentID string, sectionIDs []string) error {
	s := r.store
	defer s.lockWrite(ctx)()

	for _, id := range sectionIDs {
		delete(s.data.feedback, feedbackKey{documentID: documentID, sectionID: id})
	}
	return nil
}
