package authoring

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	"docsmith/internal/repository/postgres"
)

// PostgresFeedbackRepository implements the feedback register on a table
// with UNIQUE (document_id, section_id).
type PostgresFeedbackRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(config *postgres.RepositoryConfig) authoringRepo.FeedbackRepository {
	return &PostgresFeedbackRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Save writes the state as one statement: an upsert on
// UNIQUE (document_id, section_id), or a delete for NONE.
func (r *PostgresFeedbackRepository) Save(ctx context.Context, documentID, sectionID string, state models.FeedbackState) error {
	if !state.Valid() {
		return fmt.Errorf("feedback state %d: %w", int(state), domain.ErrInvalidReaction)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	reaction := state.Reaction()
	if reaction == nil {
		query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1::uuid AND section_id = $2`, r.tables.Feedback)
		if _, err := executor.Exec(ctx, query, documentID, sectionID); err != nil {
			return fmt.Errorf("clear feedback: %w", err)
		}
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, section_id, reaction, created_at, updated_at)
		VALUES ($1::uuid, $2, $3, $4, $4)
		ON CONFLICT (document_id, section_id)
		DO UPDATE SET reaction = EXCLUDED.reaction, updated_at = EXCLUDED.updated_at
	`, r.tables.Feedback)

	_, err := executor.Exec(ctx, query, documentID, sectionID, string(*reaction), time.Now())
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
		}
		if postgres.IsPgCheckViolation(err) {
			return fmt.Errorf("reaction '%s': %w", *reaction, domain.ErrInvalidReaction)
		}
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

// Get returns the stored reaction of a section
func (r *PostgresFeedbackRepository) Get(ctx context.Context, documentID, sectionID string) (*models.FeedbackRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, section_id, reaction, created_at, updated_at
		FROM %s
		WHERE document_id = $1::uuid AND section_id = $2
	`, r.tables.Feedback)

	executor := postgres.GetExecutor(ctx, r.pool)
	rec, err := scanFeedback(executor.QueryRow(ctx, query, documentID, sectionID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("feedback for section '%s': %w", sectionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return rec, nil
}

// ListByDocument returns all reactions of a document
func (r *PostgresFeedbackRepository) ListByDocument(ctx context.Context, documentID string) ([]models.FeedbackRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, section_id, reaction, created_at, updated_at
		FROM %s
		WHERE document_id = $1::uuid
		ORDER BY section_id
	`, r.tables.Feedback)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	records := []models.FeedbackRecord{}
	for rows.Next() {
		rec, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feedback: %w", err)
	}
	return records, nil
}

// DeleteSections removes the feedback of the given sections
func (r *PostgresFeedbackRepository) DeleteSections(ctx context.Context, documentID string, sectionIDs []string) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1::uuid AND section_id = ANY($2)`, r.tables.Feedback)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID, sectionIDs); err != nil {
		return fmt.Errorf("delete section feedback: %w", err)
	}
	return nil
}

func scanFeedback(row rowScanner) (*models.FeedbackRecord, error) {
	var rec models.FeedbackRecord
	var reaction string
	if err := row.Scan(
		&rec.ID,
		&rec.DocumentID,
		&rec.SectionID,
		&reaction,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rec.Reaction = models.Reaction(reaction)
	return &rec, nil
}
