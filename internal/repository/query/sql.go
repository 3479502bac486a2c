package query

import (
	"fmt"
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// ToSQL compiles s into a WHERE fragment with ? placeholders. Columns not in
// allowed are rejected so field names never reach the statement unchecked.
// A nil s yields an empty fragment.
func ToSQL(s Spec, allowed map[string]struct{}) (string, []interface{}, error) {
	if s == nil {
		return "", nil, nil
	}
	expr, err := toSqlizer(s, allowed)
	if err != nil {
		return "", nil, err
	}
	return expr.ToSql()
}

func toSqlizer(s Spec, allowed map[string]struct{}) (sq.Sqlizer, error) {
	switch s := s.(type) {
	case nil:
		return sq.Expr("(1=1)"), nil
	case Cond:
		return condSqlizer(s, allowed)
	case and:
		conj := sq.And{}
		for _, inner := range s {
			part, err := toSqlizer(inner, allowed)
			if err != nil {
				return nil, err
			}
			conj = append(conj, part)
		}
		return conj, nil
	case or:
		disj := sq.Or{}
		for _, inner := range s {
			part, err := toSqlizer(inner, allowed)
			if err != nil {
				return nil, err
			}
			disj = append(disj, part)
		}
		return disj, nil
	case not:
		inner, err := toSqlizer(s.inner, allowed)
		if err != nil {
			return nil, err
		}
		sql, args, err := inner.ToSql()
		if err != nil {
			return nil, err
		}
		return sq.Expr("NOT ("+sql+")", args...), nil
	default:
		return nil, fmt.Errorf("query: unsupported spec %T", s)
	}
}

func condSqlizer(c Cond, allowed map[string]struct{}) (sq.Sqlizer, error) {
	if allowed != nil {
		if _, ok := allowed[c.Field]; !ok {
			return nil, fmt.Errorf("query: unknown column %q", c.Field)
		}
	}
	val := deref(c.Value)
	switch c.Op {
	case Eq:
		return sq.Eq{c.Field: val}, nil
	case NotEq:
		return sq.NotEq{c.Field: val}, nil
	case EqFold:
		str, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("query: %s needs a string value, got %T", c, c.Value)
		}
		return sq.Expr("LOWER("+c.Field+") = LOWER(?)", str), nil
	case Lt:
		return sq.Lt{c.Field: val}, nil
	case Lte:
		return sq.LtOrEq{c.Field: val}, nil
	case Gt:
		return sq.Gt{c.Field: val}, nil
	case Gte:
		return sq.GtOrEq{c.Field: val}, nil
	case Contains:
		str, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("query: %s needs a string value, got %T", c, c.Value)
		}
		return sq.ILike{c.Field: "%" + escapeLike(str) + "%"}, nil
	case IsNull:
		return sq.Eq{c.Field: nil}, nil
	case NotNull:
		return sq.NotEq{c.Field: nil}, nil
	default:
		return nil, fmt.Errorf("query: unsupported operator %s", c.Op)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// deref unwraps pointer values; a nil pointer becomes an untyped nil.
func deref(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}
