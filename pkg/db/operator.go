package db

import (
	"context"

	"github.com/artsfest/festsync/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic database management operations.
// It provides connection lifecycle management and exposes the pgxpool.Pool
// for components (SchemaManager, Store) that execute their own SQL.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if any festival table exists in the public schema.
	// Used to determine if migration with --force has something to drop.
	HasTables(ctx context.Context) (bool, error)

	// DropTables drops the festival tables and nothing else.
	DropTables(ctx context.Context) error
}
