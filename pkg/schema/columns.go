package schema

import (
	"reflect"
)

// Column is a db-tagged field of a model.
type Column struct {
	// Name is the SQL column name.
	Name string
	// Ptr is the address of the field, usable with Scan.
	Ptr any
	// Value is the current value of the field.
	Value any
}

// Columns lists the db-tagged fields of a model pointer in declaration
// order.
func Columns(model any) []Column {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var res []Column
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		f := v.Field(i)
		col := Column{Name: tag, Value: f.Interface()}
		if f.CanAddr() {
			col.Ptr = f.Addr().Interface()
		}
		res = append(res, col)
	}
	return res
}

// ColumnNames returns only the names of Columns(model).
func ColumnNames(model any) []string {
	cols := Columns(model)
	res := make([]string, len(cols))
	for i := range cols {
		res[i] = cols[i].Name
	}
	return res
}
