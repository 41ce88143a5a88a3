package authoring

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	"docsmith/internal/repository/postgres"
)

// PostgresRefinementRepository implements the refinement ledger.
// Ordering is created_at DESC with seq (an identity column) breaking ties.
type PostgresRefinementRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewRefinementRepository creates a new refinement ledger repository
func NewRefinementRepository(config *postgres.RepositoryConfig) authoringRepo.RefinementRepository {
	return &PostgresRefinementRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Insert appends a ledger record
func (r *PostgresRefinementRepository) Insert(ctx context.Context, rec *models.RefinementRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, section_id, prompt, comment, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, seq
	`, r.tables.Refinements)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		rec.DocumentID,
		rec.SectionID,
		rec.Prompt,
		rec.Comment,
		rec.CreatedAt,
	).Scan(&rec.ID, &rec.Seq)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", rec.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert refinement: %w", err)
	}
	return nil
}

// Trim deletes everything beyond the newest `keep` records of a section
func (r *PostgresRefinementRepository) Trim(ctx context.Context, documentID, sectionID string, keep int) (int, error) {
	query := fmt.Sprintf(`
		DELETE FROM %[1]s
		WHERE id IN (
			SELECT id FROM %[1]s
			WHERE document_id = $1::uuid AND section_id = $2
			ORDER BY created_at DESC, seq DESC
			OFFSET $3
		)
	`, r.tables.Refinements)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, documentID, sectionID, keep)
	if err != nil {
		return 0, fmt.Errorf("trim refinements: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// List returns ledger records newest first
func (r *PostgresRefinementRepository) List(ctx context.Context, documentID, sectionID string, offset, limit int) ([]models.RefinementRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, seq, document_id, section_id, prompt, comment, created_at
		FROM %s
		WHERE document_id = $1::uuid AND ($2::text = '' OR section_id = $2)
		ORDER BY created_at DESC, seq DESC
		OFFSET $3 LIMIT $4
	`, r.tables.Refinements)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID, sectionID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list refinements: %w", err)
	}
	defer rows.Close()

	records := []models.RefinementRecord{}
	for rows.Next() {
		var rec models.RefinementRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Seq,
			&rec.DocumentID,
			&rec.SectionID,
			&rec.Prompt,
			&rec.Comment,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan refinement: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refinements: %w", err)
	}
	return records, nil
}

// Count returns the number of records matching the List filter
func (r *PostgresRefinementRepository) Count(ctx context.Context, documentID, sectionID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE document_id = $1::uuid AND ($2::text = '' OR section_id = $2)
	`, r.tables.Refinements)

	var n int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, documentID, sectionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count refinements: %w", err)
	}
	return n, nil
}

// DeleteSections removes the ledger of the given sections
func (r *PostgresRefinementRepository) DeleteSections(ctx context.Context, documentID string, sectionIDs []string) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE document_id = $1::uuid AND section_id = ANY($2)
	`, r.tables.Refinements)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID, sectionIDs); err != nil {
		return fmt.Errorf("delete section refinements: %w", err)
	}
	return nil
}
