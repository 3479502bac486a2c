package postgres

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/query"
)

func TestBuildStatements(t *testing.T) {
	c := &model.Customer{}
	stmt := buildStatements(c.TableName(), c.DefaultOrder(), query.Columns(c))

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			"insert", stmt.insert,
			"INSERT INTO customers (id, created_at, updated_at, first_name, last_name, email, phone) " +
				"VALUES (:id, :created_at, :updated_at, :first_name, :last_name, :email, :phone)",
		},
		{
			"update", stmt.update,
			"UPDATE customers SET created_at = :created_at, updated_at = :updated_at, first_name = :first_name, " +
				"last_name = :last_name, email = :email, phone = :phone WHERE id = :id",
		},
		{
			"select all", stmt.selectAll,
			"SELECT id, created_at, updated_at, first_name, last_name, email, phone FROM customers " +
				"ORDER BY last_name, first_name, id",
		},
		{"delete", stmt.deleteByID, "DELETE FROM customers WHERE id = $1"},
		{"exists", stmt.exists, "SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)"},
		{"count", stmt.count, "SELECT count(*) FROM customers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got  %s\nwant %s", tt.got, tt.want)
			}
		})
	}
}

func TestSchemaCreatesEveryTable(t *testing.T) {
	script := Schema()
	for _, name := range model.TableNames() {
		if !strings.Contains(script, "CREATE TABLE IF NOT EXISTS "+name+" (") {
			t.Errorf("schema.sql does not create %s", name)
		}
	}
}

func TestSchemaStatementsAreGuarded(t *testing.T) {
	create := regexp.MustCompile(`(?m)^CREATE (UNIQUE )?(TABLE|INDEX) (\S+ \S+ \S+)?`)
	for _, m := range create.FindAllString(Schema(), -1) {
		if !strings.Contains(m, "IF NOT EXISTS") {
			t.Errorf("unguarded statement: %q", m)
		}
	}
}

func TestSchemaColumnsMatchModels(t *testing.T) {
	script := Schema()
	for _, group := range [][]model.Entity{model.CoreTables, model.SalesTables, model.PayrollTables} {
		for _, e := range group {
			body := tableBody(script, e.TableName())
			if body == "" {
				t.Errorf("no body for %s", e.TableName())
				continue
			}
			for _, col := range query.Columns(e) {
				if !regexp.MustCompile(`(?m)^\s+` + col + `\s`).MatchString(body) {
					t.Errorf("%s: column %s missing from schema.sql", e.TableName(), col)
				}
			}
		}
	}
}

func tableBody(script, table string) string {
	start := strings.Index(script, "CREATE TABLE IF NOT EXISTS "+table+" (")
	if start < 0 {
		return ""
	}
	end := strings.Index(script[start:], "\n);")
	if end < 0 {
		return ""
	}
	return script[start : start+end]
}

func TestEmailIndexesFoldCase(t *testing.T) {
	script := Schema()
	for _, table := range []string{"customers", "employees"} {
		want := "CREATE UNIQUE INDEX IF NOT EXISTS idx_" + table + "_email ON " + table + " (lower(email));"
		if !strings.Contains(script, want) {
			t.Errorf("schema.sql missing %q", want)
		}
	}
}
