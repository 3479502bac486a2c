// Package repotest holds the behaviour every repository backend must share,
// written once and run against each implementation.
package repotest

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/query"
)

// Repos is one backend's repositories over an empty store.
type Repos struct {
	Customers repository.Repository[*model.Customer]
	Products  repository.Repository[*model.Product]
}

// Factory must return repositories over an empty store on every call.
type Factory func(t *testing.T) Repos

func StrPtr(s string) *string { return &s }

func NewCustomer(first, last, email string) *model.Customer {
	return &model.Customer{FirstName: first, LastName: last, Email: email}
}

func NewProduct(name string, price string, stock int, sku *string) *model.Product {
	return &model.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		SKU:           sku,
	}
}

// RunContract runs the repository contract against the backend built by newRepos.
func RunContract(t *testing.T, newRepos Factory) {
	t.Run("round trip", func(t *testing.T) { testRoundTrip(t, newRepos(t)) })
	t.Run("get missing", func(t *testing.T) { testGetMissing(t, newRepos(t)) })
	t.Run("idempotent delete", func(t *testing.T) { testIdempotentDelete(t, newRepos(t)) })
	t.Run("update", func(t *testing.T) { testUpdate(t, newRepos(t)) })
	t.Run("find", func(t *testing.T) { testFind(t, newRepos(t)) })
	t.Run("counts", func(t *testing.T) { testCounts(t, newRepos(t)) })
	t.Run("add range", func(t *testing.T) { testAddRange(t, newRepos(t)) })
	t.Run("unique constraint", func(t *testing.T) { testUniqueConstraint(t, newRepos(t)) })
	t.Run("product columns", func(t *testing.T) { testProductColumns(t, newRepos(t)) })
	t.Run("cancelled context", func(t *testing.T) { testCancelledContext(t, newRepos(t)) })
}

func testRoundTrip(t *testing.T, r Repos) {
	ctx := context.Background()
	in := NewCustomer("Jane", "Doe", "jane@x.com")
	in.Phone = StrPtr("555-0100")

	added, err := r.Customers.Add(ctx, in)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID == "" {
		t.Fatal("Add did not assign an id")
	}
	if added.CreatedAt.IsZero() {
		t.Fatal("Add did not assign a creation time")
	}

	got, err := r.Customers.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for an added customer")
	}
	AssertCustomersEqual(t, added, got)
}

func testGetMissing(t *testing.T, r Repos) {
	ctx := context.Background()
	got, err := r.Customers.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("GetByID = %+v, want nil", got)
	}
	first, err := r.Customers.FirstOrDefault(ctx, query.Equal("email", "nobody@x.com"))
	if err != nil {
		t.Fatalf("FirstOrDefault: %v", err)
	}
	if first != nil {
		t.Fatalf("FirstOrDefault = %+v, want nil", first)
	}
}

func testIdempotentDelete(t *testing.T, r Repos) {
	ctx := context.Background()
	c, err := r.Customers.Add(ctx, NewCustomer("John", "Doe", "john@x.com"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	for _, id := range []string{c.ID, "not-a-real-id"} {
		for i := 0; i < 2; i++ {
			if err := r.Customers.DeleteByID(ctx, id); err != nil {
				t.Fatalf("DeleteByID(%q) call %d: %v", id, i+1, err)
			}
			got, err := r.Customers.GetByID(ctx, id)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if got != nil {
				t.Fatalf("GetByID(%q) after delete = %+v", id, got)
			}
		}
	}

	if err := r.Customers.Delete(ctx, c); err != nil {
		t.Fatalf("Delete of a deleted entity: %v", err)
	}
}

func testUpdate(t *testing.T, r Repos) {
	ctx := context.Background()
	c, err := r.Customers.Add(ctx, NewCustomer("Jane", "Doe", "jane@x.com"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	c.Phone = StrPtr("555-0199")
	c.LastName = "Smith"
	c.Touch(model.Now())
	if err := r.Customers.Update(ctx, c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := r.Customers.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	AssertCustomersEqual(t, c, got)

	ghost := NewCustomer("No", "Body", "ghost@x.com")
	ghost.ID = "11111111-1111-1111-1111-111111111111"
	ghost.CreatedAt = model.Now()
	if err := r.Customers.Update(ctx, ghost); err != nil {
		t.Fatalf("Update of a missing row: %v", err)
	}
	exists, err := r.Customers.Exists(ctx, ghost.ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Fatal("Update created a missing row")
	}
}

func testFind(t *testing.T, r Repos) {
	ctx := context.Background()
	for _, c := range []*model.Customer{
		NewCustomer("John", "Doe", "john@x.com"),
		NewCustomer("Ann", "Adams", "ann@y.com"),
		NewCustomer("Johnny", "Zed", "jz@x.com"),
	} {
		if _, err := r.Customers.Add(ctx, c); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	all, err := r.Customers.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if got := lastNames(all); !equalStrings(got, []string{"Adams", "Doe", "Zed"}) {
		t.Errorf("GetAll order = %v", got)
	}

	for _, term := range []string{"JOHN", "john"} {
		found, err := r.Customers.Find(ctx, query.Where("first_name", query.Contains, term))
		if err != nil {
			t.Fatalf("Find(%q): %v", term, err)
		}
		if got := lastNames(found); !equalStrings(got, []string{"Doe", "Zed"}) {
			t.Errorf("Find(%q) = %v", term, got)
		}
	}

	first, err := r.Customers.FirstOrDefault(ctx, query.Where("email", query.Contains, "@X.COM"))
	if err != nil {
		t.Fatalf("FirstOrDefault: %v", err)
	}
	if first == nil || first.LastName != "Doe" {
		t.Errorf("FirstOrDefault = %+v, want Doe", first)
	}

	none, err := r.Customers.Find(ctx, query.And(
		query.Where("email", query.EqFold, "JOHN@X.COM"),
		query.Where("first_name", query.NotEq, "John"),
	))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Find excluding self = %v", lastNames(none))
	}

	if _, err := r.Customers.Find(ctx, query.Equal("no_such_column", 1)); !errors.Is(err, apperror.ErrStorageUnavailable) {
		t.Errorf("Find with unknown column: err = %v, want storage unavailable", err)
	}
}

func testCounts(t *testing.T, r Repos) {
	ctx := context.Background()
	n, err := r.Customers.Count(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Count on empty store = %d, %v", n, err)
	}
	a, _ := r.Customers.Add(ctx, NewCustomer("A", "A", "a@x.com"))
	if _, err := r.Customers.Add(ctx, NewCustomer("B", "B", "b@y.com")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	n, err = r.Customers.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v; want 2", n, err)
	}
	n, err = r.Customers.CountWhere(ctx, query.Where("email", query.Contains, "@x.com"))
	if err != nil || n != 1 {
		t.Errorf("CountWhere = %d, %v; want 1", n, err)
	}
	ok, err := r.Customers.Exists(ctx, a.ID)
	if err != nil || !ok {
		t.Errorf("Exists(added) = %v, %v", ok, err)
	}
	ok, err = r.Customers.Exists(ctx, "missing")
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}
}

func testAddRange(t *testing.T, r Repos) {
	ctx := context.Background()
	batch := []*model.Customer{
		NewCustomer("A", "One", "one@x.com"),
		NewCustomer("B", "Two", "two@x.com"),
	}
	if err := r.Customers.AddRange(ctx, batch); err != nil {
		t.Fatalf("AddRange: %v", err)
	}
	for _, c := range batch {
		if c.ID == "" || c.CreatedAt.IsZero() {
			t.Fatalf("AddRange did not assign identity: %+v", c)
		}
	}

	conflicting := []*model.Customer{
		NewCustomer("C", "Three", "three@x.com"),
		NewCustomer("D", "Four", "one@x.com"),
	}
	err := r.Customers.AddRange(ctx, conflicting)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("AddRange with duplicate email: err = %v, want conflict", err)
	}
	assertConflictOn(t, err, "email")

	selfConflicting := []*model.Customer{
		NewCustomer("E", "Five", "five@x.com"),
		NewCustomer("F", "Six", "six@x.com"),
		NewCustomer("G", "Seven", "FIVE@x.com"),
	}
	err = r.Customers.AddRange(ctx, selfConflicting)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("AddRange with a duplicate inside the batch: err = %v, want conflict", err)
	}
	assertConflictOn(t, err, "email")

	n, err := r.Customers.Count(ctx)
	if err != nil || n != 2 {
		t.Errorf("Count after failed batches = %d, %v; want 2", n, err)
	}
	for _, email := range []string{"three@x.com", "five@x.com", "six@x.com"} {
		got, err := r.Customers.FirstOrDefault(ctx, query.Where("email", query.EqFold, email))
		if err != nil || got != nil {
			t.Errorf("row %s from a failed batch = %+v, %v", email, got, err)
		}
	}
}

func testUniqueConstraint(t *testing.T, r Repos) {
	ctx := context.Background()
	if _, err := r.Customers.Add(ctx, NewCustomer("Jane", "Doe", "jane@x.com")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err := r.Customers.Add(ctx, NewCustomer("Janet", "Doe", "jane@x.com"))
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Add with same email: err = %v, want conflict", err)
	}
	assertConflictOn(t, err, "email")

	_, err = r.Customers.Add(ctx, NewCustomer("Jane", "Roe", "Jane@X.com"))
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Add with the same email in another case: err = %v, want conflict", err)
	}
	assertConflictOn(t, err, "email")

	if _, err := r.Products.Add(ctx, NewProduct("Loose A", "1.00", 1, nil)); err != nil {
		t.Fatalf("Add product without sku: %v", err)
	}
	if _, err := r.Products.Add(ctx, NewProduct("Loose B", "1.00", 1, nil)); err != nil {
		t.Fatalf("second product without sku: %v", err)
	}
}

func testProductColumns(t *testing.T, r Repos) {
	ctx := context.Background()
	widget := NewProduct("Widget", "19.99", 5, StrPtr("WDG-001"))
	widget.Description = StrPtr("A blue widget")
	if _, err := r.Products.Add(ctx, widget); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Products.Add(ctx, NewProduct("Gadget", "0.00", 50, nil)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := r.Products.GetByID(ctx, widget.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID = %v, %v", got, err)
	}
	AssertProductsEqual(t, widget, got)

	low, err := r.Products.Find(ctx, query.Where("stock_quantity", query.Lt, 10))
	if err != nil {
		t.Fatalf("Find low stock: %v", err)
	}
	if len(low) != 1 || low[0].Name != "Widget" {
		t.Errorf("low stock = %v", productNames(low))
	}

	priced, err := r.Products.Find(ctx, query.And(
		query.Where("price", query.Gte, decimal.Zero),
		query.Where("price", query.Lte, decimal.RequireFromString("19.99")),
	))
	if err != nil {
		t.Fatalf("Find price range: %v", err)
	}
	if got := productNames(priced); !equalStrings(got, []string{"Gadget", "Widget"}) {
		t.Errorf("price range = %v", got)
	}

	noSKU, err := r.Products.Find(ctx, query.Where("sku", query.IsNull, nil))
	if err != nil {
		t.Fatalf("Find null sku: %v", err)
	}
	if got := productNames(noSKU); !equalStrings(got, []string{"Gadget"}) {
		t.Errorf("null sku = %v", got)
	}

	bySKU, err := r.Products.FirstOrDefault(ctx, query.Equal("sku", "WDG-001"))
	if err != nil || bySKU == nil || bySKU.ID != widget.ID {
		t.Errorf("FirstOrDefault by sku = %v, %v", bySKU, err)
	}
}

func testCancelledContext(t *testing.T, r Repos) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Customers.Add(ctx, NewCustomer("Late", "Caller", "late@x.com"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Add with cancelled context: err = %v, want context.Canceled", err)
	}
	n, err := r.Customers.Count(context.Background())
	if err != nil || n != 0 {
		t.Errorf("Count after cancelled Add = %d, %v; want 0", n, err)
	}
}

func assertConflictOn(t *testing.T, err error, field string) {
	t.Helper()
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want *apperror.Error", err)
	}
	if appErr.Field != field {
		t.Errorf("conflict field = %q, want %q", appErr.Field, field)
	}
}

// AssertCustomersEqual compares every persisted column.
func AssertCustomersEqual(t *testing.T, want, got *model.Customer) {
	t.Helper()
	if got.ID != want.ID || got.FirstName != want.FirstName || got.LastName != want.LastName ||
		got.Email != want.Email || !equalStrPtr(got.Phone, want.Phone) {
		t.Errorf("customer = %+v, want %+v", got, want)
	}
	assertTimes(t, want.BaseModel, got.BaseModel)
}

// AssertProductsEqual compares every persisted column.
func AssertProductsEqual(t *testing.T, want, got *model.Product) {
	t.Helper()
	if got.ID != want.ID || got.Name != want.Name || !equalStrPtr(got.Description, want.Description) ||
		!got.Price.Equal(want.Price) || got.StockQuantity != want.StockQuantity || !equalStrPtr(got.SKU, want.SKU) {
		t.Errorf("product = %+v, want %+v", got, want)
	}
	assertTimes(t, want.BaseModel, got.BaseModel)
}

func assertTimes(t *testing.T, want, got model.BaseModel) {
	t.Helper()
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	switch {
	case want.UpdatedAt == nil && got.UpdatedAt == nil:
	case want.UpdatedAt == nil || got.UpdatedAt == nil:
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, want.UpdatedAt)
	case !got.UpdatedAt.Equal(*want.UpdatedAt):
		t.Errorf("updated_at = %v, want %v", *got.UpdatedAt, *want.UpdatedAt)
	}
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lastNames(cs []*model.Customer) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.LastName
	}
	return out
}

func productNames(ps []*model.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}
