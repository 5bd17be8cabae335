package iodb

import (
	"fmt"

	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when the database cannot be reached.
// The target never contains the password.
func ConnectionError(target string, err error) error {
	msg := `Cannot connect to PostgreSQL database <em>%s</em>

<em>Possible causes:</em>
  - PostgreSQL is not running
  - DATABASE_URL or database settings are incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running: <em>pg_isready</em>
  2. Verify the database exists
  3. Review settings in <em>~/.config/festsync/config.yaml</em>
     or the DATABASE_URL environment variable`

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{target},
		Err:  fmt.Errorf("failed to connect to %s: %w", target, err),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError is returned when the table lookup fails.
func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

// QueryTablesError is returned when listing tables fails.
func QueryTablesError(err error) error {
	msg := "Cannot list database tables"

	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// DropTableError is returned when a table cannot be dropped.
func DropTableError(table string, err error) error {
	msg := `Cannot drop table <em>%s</em>

<em>How to fix:</em>
  1. Check that the database user owns the table
  2. Close other sessions that lock the table`

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: []any{table},
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}
