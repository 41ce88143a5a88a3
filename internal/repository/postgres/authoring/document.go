package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	"docsmith/internal/domain/repositories"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	"docsmith/internal/repository/postgres"
)

// PostgresDocumentRepository stores documents with structure and content
// as JSONB columns. Content is always written as a whole value.
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) authoringRepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	structure, content, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, structure, content, version, created_at, updated_at)
		VALUES ($1, $2::jsonb, $3::jsonb, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		doc.ProjectID,
		structure,
		content,
		doc.Version,
		doc.CreatedAt,
		doc.UpdatedAt,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project %s already has a document", doc.ProjectID),
				ResourceType: "document",
				ResourceID:   doc.ProjectID,
			}
		}
		if postgres.IsPgForeignKeyError(err) {
			return fmt.Errorf("project %s: %w", doc.ProjectID, domain.ErrNotFound)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByProject retrieves the document of a project
func (r *PostgresDocumentRepository) GetByProject(ctx context.Context, projectID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, structure, content, version, created_at, updated_at
		FROM %s
		WHERE project_id = $1::uuid
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, projectID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("document for project %s: %w", projectID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// GetForUpdate reads a document with SELECT ... FOR UPDATE
func (r *PostgresDocumentRepository) GetForUpdate(ctx context.Context, documentID string) (*models.Document, error) {
	tx := repositories.GetTx(ctx)
	if tx == nil {
		return nil, errors.New("get document for update: no transaction in context")
	}

	query := fmt.Sprintf(`
		SELECT id, project_id, structure, content, version, created_at, updated_at
		FROM %s
		WHERE id = $1::uuid
		FOR UPDATE
	`, r.tables.Documents)

	doc, err := scanDocument(tx.QueryRow(ctx, query, documentID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock document: %w", err)
	}
	return doc, nil
}

// UpdateContent replaces the content column and version
func (r *PostgresDocumentRepository) UpdateContent(ctx context.Context, doc *models.Document) error {
	content, err := json.Marshal(nonNilContent(doc.Content))
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1::jsonb, version = $2, updated_at = $3
		WHERE id = $4::uuid
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, string(content), doc.Version, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("update document content: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	return nil
}

// UpdateStructure replaces structure, content and version
func (r *PostgresDocumentRepository) UpdateStructure(ctx context.Context, doc *models.Document) error {
	structure, content, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET structure = $1::jsonb, content = $2::jsonb, version = $3, updated_at = $4
		WHERE id = $5::uuid
	`, r.tables.Documents)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, structure, content, doc.Version, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("update document structure: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	return nil
}

func encodeDocument(doc *models.Document) (structure, content string, err error) {
	s := doc.Structure
	if s == nil {
		s = models.Structure{}
	}
	sb, err := json.Marshal(s)
	if err != nil {
		return "", "", fmt.Errorf("encode structure: %w", err)
	}
	cb, err := json.Marshal(nonNilContent(doc.Content))
	if err != nil {
		return "", "", fmt.Errorf("encode content: %w", err)
	}
	return string(sb), string(cb), nil
}

func nonNilContent(c models.SectionContent) models.SectionContent {
	if c == nil {
		return models.SectionContent{}
	}
	return c
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	var structure, content []byte
	err := row.Scan(
		&doc.ID,
		&doc.ProjectID,
		&structure,
		&content,
		&doc.Version,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(structure, &doc.Structure); err != nil {
		return nil, fmt.Errorf("decode structure: %w", err)
	}
	if err := json.Unmarshal(content, &doc.Content); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	doc.Content = nonNilContent(doc.Content)
	return &doc, nil
}
