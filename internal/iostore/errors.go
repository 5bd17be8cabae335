package iostore

import (
	"fmt"

	"github.com/artsfest/festsync/pkg/errcode"
	"github.com/artsfest/festsync/pkg/festival"
	"github.com/gnames/gn"
)

func QueryError(k festival.Kind, err error) error {
	msg := `Cannot read <em>%s</em> from the database

<em>How to fix:</em>
  Run <em>festsync migrate</em> if the tables do not exist yet`

	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: []any{k.Collection()},
		Err:  fmt.Errorf("query %s: %w", k.Collection(), err),
	}
}

func InsertError(k festival.Kind, err error) error {
	msg := "Cannot insert a record into <em>%s</em>"

	return &gn.Error{
		Code: errcode.StoreInsertError,
		Msg:  msg,
		Vars: []any{k.Collection()},
		Err:  fmt.Errorf("insert into %s: %w", k.Collection(), err),
	}
}

func UpdateError(k festival.Kind, id string, err error) error {
	msg := "Cannot update record <em>%s</em> in <em>%s</em>"

	return &gn.Error{
		Code: errcode.StoreUpdateError,
		Msg:  msg,
		Vars: []any{id, k.Collection()},
		Err:  fmt.Errorf("update %s %s: %w", k.Collection(), id, err),
	}
}

func DeleteError(k festival.Kind, id string, err error) error {
	msg := "Cannot delete record <em>%s</em> from <em>%s</em>"

	return &gn.Error{
		Code: errcode.StoreDeleteError,
		Msg:  msg,
		Vars: []any{id, k.Collection()},
		Err:  fmt.Errorf("delete %s %s: %w", k.Collection(), id, err),
	}
}
