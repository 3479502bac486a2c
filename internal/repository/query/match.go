package query

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	timeType    = reflect.TypeOf(time.Time{})
)

// Match evaluates s against entity in memory with the same semantics ToSQL
// produces on the server: a comparison against a NULL column is false.
func Match(s Spec, entity interface{}) (bool, error) {
	switch s := s.(type) {
	case nil:
		return true, nil
	case Cond:
		return matchCond(s, entity)
	case and:
		for _, inner := range s {
			ok, err := Match(inner, entity)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case or:
		for _, inner := range s {
			ok, err := Match(inner, entity)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case not:
		ok, err := Match(s.inner, entity)
		if err != nil {
			return false, err
		}
		return !ok, nil
	default:
		return false, fmt.Errorf("query: unsupported spec %T", s)
	}
}

func matchCond(c Cond, entity interface{}) (bool, error) {
	fv, ok := field(reflect.ValueOf(entity), c.Field)
	if !ok {
		return false, fmt.Errorf("query: unknown column %q", c.Field)
	}
	isNull := false
	for fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			isNull = true
			break
		}
		fv = fv.Elem()
	}
	val := deref(c.Value)

	switch c.Op {
	case IsNull:
		return isNull, nil
	case NotNull:
		return !isNull, nil
	case Eq:
		if val == nil {
			return isNull, nil
		}
	case NotEq:
		if val == nil {
			return !isNull, nil
		}
	}
	if isNull {
		return false, nil
	}
	if val == nil {
		return false, fmt.Errorf("query: %s needs a non-nil value", c)
	}

	switch c.Op {
	case EqFold, Contains:
		if fv.Kind() != reflect.String {
			return false, fmt.Errorf("query: %s needs a string column", c)
		}
		str, ok := val.(string)
		if !ok {
			return false, fmt.Errorf("query: %s needs a string value, got %T", c, c.Value)
		}
		if c.Op == EqFold {
			return strings.EqualFold(fv.String(), str), nil
		}
		return strings.Contains(strings.ToLower(fv.String()), strings.ToLower(str)), nil
	}

	cmp, err := compare(fv, val)
	if err != nil {
		return false, fmt.Errorf("query: %s: %w", c, err)
	}
	switch c.Op {
	case Eq:
		return cmp == 0, nil
	case NotEq:
		return cmp != 0, nil
	case Lt:
		return cmp < 0, nil
	case Lte:
		return cmp <= 0, nil
	case Gt:
		return cmp > 0, nil
	case Gte:
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("query: unsupported operator %s", c.Op)
	}
}

// compare returns -1, 0 or 1 ordering the column value fv against val.
func compare(fv reflect.Value, val interface{}) (int, error) {
	switch {
	case fv.Type() == decimalType:
		d, err := toDecimal(val)
		if err != nil {
			return 0, err
		}
		return fv.Interface().(decimal.Decimal).Cmp(d), nil
	case fv.Type() == timeType:
		t, ok := val.(time.Time)
		if !ok {
			return 0, fmt.Errorf("cannot compare time with %T", val)
		}
		ft := fv.Interface().(time.Time)
		switch {
		case ft.Before(t):
			return -1, nil
		case ft.After(t):
			return 1, nil
		}
		return 0, nil
	}

	switch fv.Kind() {
	case reflect.String:
		s, ok := val.(string)
		if !ok {
			return 0, fmt.Errorf("cannot compare string with %T", val)
		}
		return strings.Compare(fv.String(), s), nil
	case reflect.Bool:
		b, ok := val.(bool)
		if !ok {
			return 0, fmt.Errorf("cannot compare bool with %T", val)
		}
		if fv.Bool() == b {
			return 0, nil
		}
		if !fv.Bool() {
			return -1, nil
		}
		return 1, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		left, err := toDecimal(fv.Interface())
		if err != nil {
			return 0, err
		}
		right, err := toDecimal(val)
		if err != nil {
			return 0, err
		}
		return left.Cmp(right), nil
	default:
		return 0, fmt.Errorf("unsupported column type %s", fv.Type())
	}
}

func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int8:
		return decimal.NewFromInt(int64(n)), nil
	case int16:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt32(n), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint:
		return decimal.NewFromInt(int64(n)), nil
	case uint8:
		return decimal.NewFromInt(int64(n)), nil
	case uint16:
		return decimal.NewFromInt(int64(n)), nil
	case uint32:
		return decimal.NewFromInt(int64(n)), nil
	case uint64:
		return decimal.NewFromInt(int64(n)), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		return decimal.NewFromString(n)
	default:
		return decimal.Decimal{}, fmt.Errorf("cannot compare number with %T", v)
	}
}
