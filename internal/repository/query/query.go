// Package query is a small predicate language over entity columns. The ORM
// backend compiles a Spec into a server-side WHERE clause, the direct-SQL
// backend evaluates it in memory against fetched rows.
package query

import "fmt"

type Op int

const (
	Eq Op = iota
	NotEq
	// EqFold is case-insensitive string equality.
	EqFold
	Lt
	Lte
	Gt
	Gte
	// Contains is a case-insensitive substring match on string columns.
	Contains
	IsNull
	NotNull
)

func (o Op) String() string {
	switch o {
	case Eq:
		return "="
	case NotEq:
		return "<>"
	case EqFold:
		return "=~"
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Gt:
		return ">"
	case Gte:
		return ">="
	case Contains:
		return "contains"
	case IsNull:
		return "is null"
	case NotNull:
		return "is not null"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Spec is a predicate over one entity. A nil Spec matches everything.
type Spec interface {
	spec()
}

// Cond compares one column against a value. Field is the column name.
type Cond struct {
	Field string
	Op    Op
	Value interface{}
}

type and []Spec

type or []Spec

type not struct{ inner Spec }

func (Cond) spec() {}
func (and) spec()  {}
func (or) spec()   {}
func (not) spec()  {}

func Where(field string, op Op, value interface{}) Cond {
	return Cond{Field: field, Op: op, Value: value}
}

func Equal(field string, value interface{}) Cond { return Where(field, Eq, value) }

func And(specs ...Spec) Spec { return and(compact(specs)) }

func Or(specs ...Spec) Spec { return or(compact(specs)) }

func Not(s Spec) Spec { return not{inner: s} }

// ContainsAny matches when any of the fields contains term, ignoring case.
func ContainsAny(term string, fields ...string) Spec {
	specs := make([]Spec, 0, len(fields))
	for _, f := range fields {
		specs = append(specs, Where(f, Contains, term))
	}
	return Or(specs...)
}

func compact(specs []Spec) []Spec {
	out := specs[:0:0]
	for _, s := range specs {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (c Cond) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Op, c.Value)
}
