package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docsmith/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Projects    string
	Documents   string
	Refinements string
	Feedback    string
	Templates   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Projects:    fmt.Sprintf("%sprojects", prefix),
		Documents:   fmt.Sprintf("%sdocuments", prefix),
		Refinements: fmt.Sprintf("%srefinements", prefix),
		Feedback:    fmt.Sprintf("%sfeedback", prefix),
		Templates:   fmt.Sprintf("%stemplates", prefix),
	}
}

// All returns the tables in dependency order (parents first).
func (t *TableNames) All() []string {
	return []string{t.Projects, t.Documents, t.Refinements, t.Feedback, t.Templates}
}

// CreateConnectionPool opens a pgx pool and pings it.
//
// Port 6543 is the transaction-mode PgBouncer port of hosted Postgres
// providers, which cannot hold prepared statements. Unless the URL sets
// default_query_exec_mode itself, such connections switch to
// QueryExecModeCacheDescribe: extended protocol (needed for JSONB
// parameters) without server-side prepared statements.
//
// Table names are interpolated with fmt.Sprintf before the SQL reaches the
// server, so each prefix gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
