package query

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Sort orders items in place by an ORDER BY style column list such as
// "last_name, first_name DESC". NULLs sort last, as in PostgreSQL.
func Sort[T any](items []T, orderBy string) error {
	keys, err := parseOrder(orderBy)
	if err != nil {
		return err
	}
	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		for _, k := range keys {
			c, err := compareColumn(items[i], items[j], k.column)
			if err != nil {
				sortErr = err
				return false
			}
			if c == 0 {
				continue
			}
			if k.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return sortErr
}

type orderKey struct {
	column string
	desc   bool
}

func parseOrder(orderBy string) ([]orderKey, error) {
	var keys []orderKey
	for _, part := range strings.Split(orderBy, ",") {
		fields := strings.Fields(part)
		switch {
		case len(fields) == 0:
			continue
		case len(fields) == 1:
			keys = append(keys, orderKey{column: fields[0]})
		case len(fields) == 2 && strings.EqualFold(fields[1], "desc"):
			keys = append(keys, orderKey{column: fields[0], desc: true})
		case len(fields) == 2 && strings.EqualFold(fields[1], "asc"):
			keys = append(keys, orderKey{column: fields[0]})
		default:
			return nil, fmt.Errorf("query: bad order clause %q", part)
		}
	}
	return keys, nil
}

func compareColumn(a, b interface{}, column string) (int, error) {
	av, ok := field(reflect.ValueOf(a), column)
	if !ok {
		return 0, fmt.Errorf("query: unknown column %q", column)
	}
	bv, _ := field(reflect.ValueOf(b), column)
	aNull, bNull := derefValue(&av), derefValue(&bv)
	switch {
	case aNull && bNull:
		return 0, nil
	case aNull:
		return 1, nil
	case bNull:
		return -1, nil
	}
	return compare(av, bv.Interface())
}

func derefValue(v *reflect.Value) (isNull bool) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return true
		}
		*v = v.Elem()
	}
	return false
}
