package postgres

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("test_")
	assert.Equal(t, "test_projects", tables.Projects)
	assert.Equal(t, []string{"test_projects", "test_documents", "test_refinements", "test_feedback", "test_templates"}, tables.All())
}

func TestSchemaStatements_UsePrefix(t *testing.T) {
	stmts := schemaStatements(NewTableNames("test_"), "test_")
	require.NotEmpty(t, stmts)

	ddl := strings.Join(stmts, "\n")
	for _, name := range []string{
		"CREATE TABLE IF NOT EXISTS test_projects",
		"REFERENCES test_projects(id)",
		"REFERENCES test_documents(id)",
		"test_feedback_document_section_key",
		"idx_test_refinements_section ON test_refinements",
		"CREATE TABLE IF NOT EXISTS test_templates",
		"idx_test_templates_one_default ON test_templates(user_id, document_type) WHERE is_default",
	} {
		assert.Contains(t, ddl, name)
	}
	assert.NotContains(t, ddl, "dev_")
}

func TestPgErrorHelpers(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, IsPgDuplicateError(dup))
	assert.False(t, IsPgDuplicateError(fk))
	assert.True(t, IsPgForeignKeyError(fk))
	assert.True(t, IsPgCheckViolation(check))
	assert.True(t, IsPgNoRowsError(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsPgNoRowsError(dup))
	assert.True(t, IsPgInvalidTextError(fmt.Errorf("get: %w", &pgconn.PgError{Code: "22P02"})))
	assert.False(t, IsPgInvalidTextError(check))
	assert.Empty(t, pgErrorCode(nil))
}
