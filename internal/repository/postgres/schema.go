package postgres

import (
	"context"
	"fmt"

	"docsmith/internal/domain/repositories"
)

// schemaStatements returns the DDL for the prefixed tables, parents first.
func schemaStatements(t *TableNames, prefix string) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			title VARCHAR(255) NOT NULL,
			document_type VARCHAR(20) NOT NULL CHECK (document_type IN ('word', 'powerpoint')),
			main_topic VARCHAR(500) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Projects),

		// One document per project
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL UNIQUE REFERENCES %s(id) ON DELETE CASCADE,
			structure JSONB NOT NULL DEFAULT '[]'::jsonb,
			content JSONB NOT NULL DEFAULT '{}'::jsonb,
			version INTEGER NOT NULL DEFAULT 1 CHECK (version >= 1),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Documents, t.Projects),

		// Ledger: metadata only, no content column
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			seq BIGINT GENERATED ALWAYS AS IDENTITY,
			document_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			section_id VARCHAR(100) NOT NULL,
			prompt TEXT,
			comment TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (prompt IS NOT NULL OR comment IS NOT NULL)
		)`, t.Refinements, t.Documents),

		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			document_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
			section_id VARCHAR(100) NOT NULL,
			reaction VARCHAR(10) NOT NULL CHECK (reaction IN ('like', 'dislike')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT %sfeedback_document_section_key UNIQUE (document_id, section_id)
		)`, t.Feedback, t.Documents, prefix),

		// Export styles, owned by a user rather than a project
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id TEXT NOT NULL,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			document_type VARCHAR(20) NOT NULL CHECK (document_type IN ('word', 'powerpoint')),
			config JSONB NOT NULL,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			is_public BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, t.Templates),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%sprojects_user_updated ON %s(user_id, updated_at DESC)`, prefix, t.Projects),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%srefinements_section ON %s(document_id, section_id, created_at DESC, seq DESC)`, prefix, t.Refinements),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%stemplates_user_type ON %s(user_id, document_type)`, prefix, t.Templates),
		// One default per user and document type
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_%stemplates_one_default ON %s(user_id, document_type) WHERE is_default`, prefix, t.Templates),
	}
}

// EnsureSchema creates tables and indexes if they don't exist.
func EnsureSchema(ctx context.Context, db repositories.DBTX, tables *TableNames, prefix string) error {
	for _, stmt := range schemaStatements(tables, prefix) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// DropSchema drops all tables in reverse dependency order.
func DropSchema(ctx context.Context, db repositories.DBTX, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := db.Exec(ctx, "DROP TABLE IF EXISTS "+all[i]+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}

// ClearUserData deletes every project and template of a user; cascades
// remove the rest. It returns the number of projects deleted.
func ClearUserData(ctx context.Context, db repositories.DBTX, tables *TableNames, userID string) (int64, error) {
	tag, err := db.Exec(ctx, "DELETE FROM "+tables.Projects+" WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("clear projects: %w", err)
	}
	if _, err := db.Exec(ctx, "DELETE FROM "+tables.Templates+" WHERE user_id = $1", userID); err != nil {
		return 0, fmt.Errorf("clear templates: %w", err)
	}
	return tag.RowsAffected(), nil
}
