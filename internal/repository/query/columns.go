package query

import (
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx/reflectx"
)

// mapper mirrors the one sqlx uses for scanning, so in-memory evaluation sees
// the same column names as the statements.
var mapper = reflectx.NewMapperFunc("db", strings.ToLower)

// Columns lists the top-level mapped columns of the struct behind v, with
// embedded structs flattened. Fields tagged db:"-" are skipped.
func Columns(v interface{}) []string {
	tm := mapper.TypeMap(reflectx.Deref(reflect.TypeOf(v)))
	base := make([]string, 0, len(tm.Index))
	own := make([]string, 0, len(tm.Index))
	for _, fi := range tm.Index {
		if fi.Embedded || strings.Contains(fi.Path, ".") {
			continue
		}
		if fi.Parent != nil && fi.Parent.Embedded {
			base = append(base, fi.Path)
			continue
		}
		own = append(own, fi.Path)
	}
	// Embedded (base) columns such as id and created_at come first.
	return append(base, own...)
}

// ColumnSet is Columns as a lookup set.
func ColumnSet(v interface{}) map[string]struct{} {
	cols := Columns(v)
	set := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		set[c] = struct{}{}
	}
	return set
}

func field(v reflect.Value, column string) (reflect.Value, bool) {
	v = reflect.Indirect(v)
	tm := mapper.TypeMap(v.Type())
	fi, ok := tm.Paths[column]
	if !ok || fi.Embedded {
		return reflect.Value{}, false
	}
	return reflectx.FieldByIndexesReadOnly(v, fi.Index), true
}

// Value returns the value of column in entity with pointers unwrapped; NULL
// columns yield nil. ok is false when the column does not exist.
func Value(entity interface{}, column string) (value interface{}, ok bool) {
	fv, ok := field(reflect.ValueOf(entity), column)
	if !ok {
		return nil, false
	}
	if derefValue(&fv) {
		return nil, true
	}
	return fv.Interface(), true
}
