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

// RefinementRepository is the in-memory ledger
type RefinementRepository struct {
	store *Store
}

// NewRefinementRepository creates a ledger repository over the store
func NewRefinementRepository(store *Store) authoringRepo.RefinementRepository {
	return &RefinementRepository{store: store}
}

func (r *RefinementRepository) Insert(ctx context.Context, rec *models.RefinementRecord) error {
	s := r.store
	defer s.lockWrite(ctx)()

	if _, ok := s.data.documents[rec.DocumentID]; !ok {
		return fmt.Errorf("document %s: %w", rec.DocumentID, domain.ErrNotFound)
	}
	s.data.seq++
	rec.ID = uuid.NewString()
	rec.Seq = s.data.seq
	s.data.refinements = append(s.data.refinements, *rec)
	return nil
}

func (r *RefinementRepository) Trim(ctx context.Context, documentID, sectionID string, keep int) (int, error) {
	s := r.store
	defer s.lockWrite(ctx)()

	section := s.matching(documentID, sectionID)
	if len(section) <= keep {
		return 0, nil
	}
	drop := make(map[string]struct{}, len(section)-keep)
	for _, rec := range section[keep:] {
		drop[rec.ID] = struct{}{}
	}

	kept := s.data.refinements[:0]
	for _, rec := range s.data.refinements {
		if _, ok := drop[rec.ID]; !ok {
			kept = append(kept, rec)
		}
	}
	s.data.refinements = kept
	return len(drop), nil
}

func (r *RefinementRepository) List(ctx context.Context, documentID, sectionID string, offset, limit int) ([]models.RefinementRecord, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.matching(documentID, sectionID)
	if offset >= len(all) {
		return []models.RefinementRecord{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

func (r *RefinementRepository) Count(ctx context.Context, documentID, sectionID string) (int, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.matching(documentID, sectionID)), nil
}

func (r *RefinementRepository) DeleteSections(ctx context.Context, documentID string, sectionIDs []string) error {
	s := r.store
	defer s.lockWrite(ctx)()

	drop := make(map[string]struct{}, len(sectionIDs))
	for _, id := range sectionIDs {
		drop[id] = struct{}{}
	}
	kept := s.data.refinements[:0]
	for _, rec := range s.data.refinements {
		if _, ok := drop[rec.SectionID]; ok && rec.DocumentID == documentID {
			continue
		}
		kept = append(kept, rec)
	}
	s.data.refinements = kept
	return nil
}

// matching returns a fresh slice of records newest first. Caller holds mu.
func (s *Store) matching(documentID, sectionID string) []models.RefinementRecord {
	out := []models.RefinementRecord{}
	for _, rec := range s.data.refinements {
		if rec.DocumentID == documentID && (sectionID == "" || rec.SectionID == sectionID) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}
