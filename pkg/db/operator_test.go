package db_test

import (
	"testing"

	"github.com/artsfest/festsync/internal/iodb"
	"github.com/artsfest/festsync/internal/iostore"
	"github.com/artsfest/festsync/internal/iotesting"
	"github.com/artsfest/festsync/pkg/db"
	"github.com/stretchr/testify/assert"
)

// TestContracts verifies the constructors return working implementations
// of the db interfaces without touching a database.
func TestContracts(t *testing.T) {
	op := iodb.NewPgxOperator()
	assert.NotNil(t, op)
	assert.Nil(t, op.Pool(), "pool appears only after Connect")

	var st db.Store = iostore.New(nil)
	assert.NotNil(t, st)

	st = iotesting.NewMemStore()
	assert.NotNil(t, st)
}
