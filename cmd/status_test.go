package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/artsfest/festsync/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tablesOperator answers TableExists from a fixed set of tables.
type tablesOperator struct {
	tables map[string]bool
	err    error
}

func (o *tablesOperator) Connect(context.Context, *config.DatabaseConfig) error {
	return nil
}

func (o *tablesOperator) Close() error { return nil }
func (o *tablesOperator) Pool() *pgxpool.Pool { return nil }

func (o *tablesOperator) TableExists(_ context.Context, name string) (bool, error) {
	return o.tables[name], o.err
}

func (o *tablesOperator) HasTables(context.Context) (bool, error) {
	return len(o.tables) > 0, o.err
}

func (o *tablesOperator) DropTables(context.Context) error {
	o.tables = nil
	return o.err
}

func TestMissingTables(t *testing.T) {
	ctx := context.Background()

	op := &tablesOperator{tables: map[string]bool{
		"festival_info": true,
		"teams":         true,
		"users":         true,
	}}
	res, err := missingTables(ctx, op)
	require.NoError(t, err)
	assert.Equal(t, []string{"candidates", "programmes", "results"}, res)

	op.tables["candidates"] = true
	op.tables["programmes"] = true
	op.tables["results"] = true
	res, err = missingTables(ctx, op)
	require.NoError(t, err)
	assert.Empty(t, res)

	op.err = errors.New("connection reset")
	_, err = missingTables(ctx, op)
	assert.Error(t, err)
}
