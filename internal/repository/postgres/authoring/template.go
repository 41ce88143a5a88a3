package authoring

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docsmith/internal/domain"
	models "docsmith/internal/domain/models/authoring"
	authoringRepo "docsmith/internal/domain/repositories/authoring"
	"docsmith/internal/repository/postgres"
)

// PostgresTemplateRepository implements the TemplateRepository interface
type PostgresTemplateRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(config *postgres.RepositoryConfig) authoringRepo.TemplateRepository {
	return &PostgresTemplateRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const templateColumns = `id, user_id, name, description, document_type, config, is_default, is_public, created_at, updated_at`

// Create inserts a template; a second default for the same user and type
// trips the partial unique index
func (r *PostgresTemplateRepository) Create(ctx context.Context, tmpl *models.Template) error {
	cfg, err := json.Marshal(tmpl.Config)
	if err != nil {
		return fmt.Errorf("encode template config: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, description, document_type, config, is_default, is_public, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query,
		tmpl.UserID,
		tmpl.Name,
		tmpl.Description,
		string(tmpl.DocumentType),
		cfg,
		tmpl.IsDefault,
		tmpl.IsPublic,
		tmpl.CreatedAt,
		tmpl.UpdatedAt,
	).Scan(&tmpl.ID, &tmpl.CreatedAt, &tmpl.UpdatedAt)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return defaultConflict(tmpl)
		}
		if postgres.IsPgCheckViolation(err) {
			return fmt.Errorf("document type '%s': %w", tmpl.DocumentType, domain.ErrValidation)
		}
		return fmt.Errorf("create template: %w", err)
	}

	return nil
}

// GetByID retrieves a template owned by userID
func (r *PostgresTemplateRepository) GetByID(ctx context.Context, id, userID string) (*models.Template, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1::uuid AND user_id = $2
	`, templateColumns, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	tmpl, err := scanTemplate(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) || postgres.IsPgInvalidTextError(err) {
			return nil, fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get template: %w", err)
	}

	return tmpl, nil
}

// List retrieves a user's templates, default first then newest first
func (r *PostgresTemplateRepository) List(ctx context.Context, userID string, docType models.DocumentType) ([]models.Template, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1 AND ($2::text = '' OR document_type = $2)
		ORDER BY is_default DESC, created_at DESC
	`, templateColumns, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, string(docType))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *tmpl)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return templates, nil
}

// Update replaces name, description, config, flags and updated_at
func (r *PostgresTemplateRepository) Update(ctx context.Context, tmpl *models.Template) error {
	cfg, err := json.Marshal(tmpl.Config)
	if err != nil {
		return fmt.Errorf("encode template config: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, config = $3, is_default = $4, is_public = $5, updated_at = $6
		WHERE id = $7::uuid AND user_id = $8
	`, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		tmpl.Name,
		tmpl.Description,
		cfg,
		tmpl.IsDefault,
		tmpl.IsPublic,
		tmpl.UpdatedAt,
		tmpl.ID,
		tmpl.UserID,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return defaultConflict(tmpl)
		}
		if postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("template %s: %w", tmpl.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update template: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", tmpl.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete hard-deletes a template
func (r *PostgresTemplateRepository) Delete(ctx context.Context, id, userID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1::uuid AND user_id = $2`, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		if postgres.IsPgInvalidTextError(err) {
			return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete template: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("template %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ClearDefault unsets is_default on the user's templates of docType
func (r *PostgresTemplateRepository) ClearDefault(ctx context.Context, userID string, docType models.DocumentType, exceptID string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_default = FALSE
		WHERE user_id = $1 AND document_type = $2 AND is_default AND ($3::text = '' OR id <> NULLIF($3::text, '')::uuid)
	`, r.tables.Templates)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, string(docType), exceptID); err != nil {
		return fmt.Errorf("clear default template: %w", err)
	}
	return nil
}

func defaultConflict(tmpl *models.Template) error {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("a default %s template already exists", tmpl.DocumentType),
		ResourceType: "template",
	}
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	var tmpl models.Template
	var docType string
	var cfg []byte
	err := row.Scan(
		&tmpl.ID,
		&tmpl.UserID,
		&tmpl.Name,
		&tmpl.Description,
		&docType,
		&cfg,
		&tmpl.IsDefault,
		&tmpl.IsPublic,
		&tmpl.CreatedAt,
		&tmpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	tmpl.DocumentType = models.DocumentType(docType)
	if err := json.Unmarshal(cfg, &tmpl.Config); err != nil {
		return nil, fmt.Errorf("decode template config: %w", err)
	}
	return &tmpl, nil
}
