package lifecycle

import (
	"context"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to create missing tables and columns.
// Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Migrate creates or updates the festival tables.
	Migrate(ctx context.Context) error
}
