package query

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type base struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

type item struct {
	base
	Name     string          `db:"name"`
	SKU      *string         `db:"sku"`
	Price    decimal.Decimal `db:"price"`
	Stock    int             `db:"stock"`
	Active   bool            `db:"active"`
	Internal string          `db:"-"`
}

func strPtr(s string) *string { return &s }

func TestColumns(t *testing.T) {
	got := Columns(&item{})
	want := []string{"id", "created_at", "name", "sku", "price", "stock", "active"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Columns = %v, want %v", got, want)
	}
}

func TestToSQL(t *testing.T) {
	allowed := ColumnSet(&item{})
	tests := []struct {
		name     string
		spec     Spec
		wantSQL  string
		wantArgs []interface{}
	}{
		{"nil", nil, "", nil},
		{"eq", Equal("name", "Widget"), "name = ?", []interface{}{"Widget"}},
		{"eq nil", Equal("sku", nil), "sku IS NULL", nil},
		{"eq pointer", Equal("sku", strPtr("WDG-001")), "sku = ?", []interface{}{"WDG-001"}},
		{
			"unique excluding self",
			And(Where("name", EqFold, "widget"), Where("id", NotEq, "1")),
			"(LOWER(name) = LOWER(?) AND id <> ?)",
			[]interface{}{"widget", "1"},
		},
		{"lte", Where("price", Lte, 10), "price <= ?", []interface{}{10}},
		{"contains escapes", Where("name", Contains, "50%_off"), "name ILIKE ?", []interface{}{`%50\%\_off%`}},
		{
			"contains any",
			ContainsAny("jo", "name", "sku"),
			"(name ILIKE ? OR sku ILIKE ?)",
			[]interface{}{"%jo%", "%jo%"},
		},
		{"not", Not(Equal("active", true)), "NOT (active = ?)", []interface{}{true}},
		{"not null", Where("sku", NotNull, nil), "sku IS NOT NULL", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := ToSQL(tt.spec, allowed)
			if err != nil {
				t.Fatalf("ToSQL: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if !reflect.DeepEqual(args[i], tt.wantArgs[i]) {
					t.Errorf("args[%d] = %#v, want %#v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestToSQLRejectsUnknownColumn(t *testing.T) {
	_, _, err := ToSQL(Equal("name; DROP TABLE items", "x"), ColumnSet(&item{}))
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestMatch(t *testing.T) {
	widget := &item{
		base:   base{ID: "1", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		Name:   "Blue Widget",
		SKU:    strPtr("WDG-001"),
		Price:  decimal.RequireFromString("19.99"),
		Stock:  5,
		Active: true,
	}
	gadget := &item{base: base{ID: "2"}, Name: "Gadget", Price: decimal.Zero}

	tests := []struct {
		name   string
		spec   Spec
		entity *item
		want   bool
	}{
		{"nil spec", nil, widget, true},
		{"eq", Equal("name", "Blue Widget"), widget, true},
		{"eq is case sensitive", Equal("name", "blue widget"), widget, false},
		{"eq fold", Where("name", EqFold, "BLUE WIDGET"), widget, true},
		{"contains upper", Where("name", Contains, "WIDGET"), widget, true},
		{"contains lower", Where("name", Contains, "widget"), widget, true},
		{"contains miss", Where("name", Contains, "gizmo"), widget, false},
		{"pointer eq", Equal("sku", "WDG-001"), widget, true},
		{"null eq value", Equal("sku", "WDG-001"), gadget, false},
		{"null eq nil", Equal("sku", nil), gadget, true},
		{"null not eq value", Where("sku", NotEq, "WDG-001"), gadget, false},
		{"null contains", Where("sku", Contains, "WDG"), gadget, false},
		{"int lt", Where("stock", Lt, 10), widget, true},
		{"int lt boundary", Where("stock", Lt, 5), widget, false},
		{"decimal gte", Where("price", Gte, decimal.RequireFromString("19.99")), widget, true},
		{"decimal vs float", Where("price", Gt, 20.0), widget, false},
		{"decimal zero lte", Where("price", Lte, 0), gadget, true},
		{"bool", Equal("active", false), gadget, true},
		{"time", Where("created_at", Lt, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), widget, true},
		{"and", And(Equal("name", "Blue Widget"), Where("id", NotEq, "1")), widget, false},
		{"or", Or(Equal("name", "x"), Equal("id", "1")), widget, true},
		{"empty or", Or(), widget, false},
		{"empty and", And(), widget, true},
		{"not", Not(Equal("active", true)), widget, false},
		{"contains any", ContainsAny("wdg", "name", "sku"), widget, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(tt.spec, tt.entity)
			if err != nil {
				t.Fatalf("Match: %v", err)
			}
			if got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchErrors(t *testing.T) {
	e := &item{Name: "x"}
	tests := []struct {
		name string
		spec Spec
	}{
		{"unknown column", Equal("nope", 1)},
		{"type mismatch", Equal("name", 3)},
		{"contains on number", Where("stock", Contains, "1")},
		{"ordering with nil", Where("stock", Lt, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Match(tt.spec, e); err == nil {
				t.Error("expected error")
			}
		})
	}
}
