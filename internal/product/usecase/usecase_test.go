package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/product"
	"github.com/fekuna/omnipos-kiosk-service/internal/product/dto"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/memory"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T) (product.UseCase, *memory.Repository[*model.Product]) {
	t.Helper()
	repo := memory.New[*model.Product](memory.Unique("sku"))
	return NewProductUseCase(repo, zap.NewNop(), WithClock(func() time.Time { return fixedNow })), repo
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func mustCreate(t *testing.T, uc product.UseCase, in dto.CreateProductInput) *model.Product {
	t.Helper()
	p, err := uc.CreateProduct(context.Background(), &in)
	if err != nil {
		t.Fatalf("CreateProduct(%s): %v", in.Name, err)
	}
	return p
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name      string
		input     dto.CreateProductInput
		wantField string
	}{
		{"zero price", dto.CreateProductInput{Name: "Free", Price: price("0")}, ""},
		{"cent price", dto.CreateProductInput{Name: "Cheap", Price: price("0.01")}, ""},
		{"negative price", dto.CreateProductInput{Name: "Bad", Price: price("-0.01")}, "price"},
		{"sub-cent price", dto.CreateProductInput{Name: "Odd", Price: price("19.999")}, "price"},
		{"price out of range", dto.CreateProductInput{Name: "Huge", Price: price("10000000000000000")}, "price"},
		{"negative stock", dto.CreateProductInput{Name: "Bad", Price: price("1"), StockQuantity: -1}, "stock_quantity"},
		{"blank name", dto.CreateProductInput{Name: " ", Price: price("1")}, "name"},
		{"long sku", dto.CreateProductInput{Name: "Long", Price: price("1"), SKU: strings.Repeat("X", 51)}, "sku"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo := newUseCase(t)
			_, err := uc.CreateProduct(context.Background(), &tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var appErr *apperror.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperror.KindValidation || appErr.Field != tt.wantField {
				t.Fatalf("err = %v, want validation on %s", err, tt.wantField)
			}
			if repo.Writes() != 0 {
				t.Errorf("writes = %d after rejected input", repo.Writes())
			}
		})
	}
}

func TestCreateProductSKU(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)
	mustCreate(t, uc, dto.CreateProductInput{Name: "Widget", Price: price("19.99"), StockQuantity: 50, SKU: "WDG-001"})

	_, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Other", Price: price("1.00"), SKU: "WDG-001"})
	if !errors.Is(err, apperror.ErrConflict) || !strings.Contains(err.Error(), "WDG-001") {
		t.Fatalf("err = %v, want conflict naming WDG-001", err)
	}

	mustCreate(t, uc, dto.CreateProductInput{Name: "Loose A", Price: price("1")})
	mustCreate(t, uc, dto.CreateProductInput{Name: "Loose B", Price: price("1"), SKU: "  "})
	n, _ := uc.CountProducts(ctx)
	if n != 3 {
		t.Errorf("CountProducts = %d, want 3", n)
	}
}

func TestWidgetScenario(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	widget := mustCreate(t, uc, dto.CreateProductInput{Name: "Widget", Price: price("19.99"), StockQuantity: 50, SKU: "WDG-001"})
	if widget.ID == "" {
		t.Fatal("no id assigned")
	}
	if widget.Description != nil {
		t.Errorf("description = %q, want none", *widget.Description)
	}

	_, err := uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Knock-off", Price: price("5"), SKU: "WDG-001"})
	var conflict *apperror.Error
	if !errors.As(err, &conflict) || conflict.Kind != apperror.KindConflict {
		t.Fatalf("duplicate sku err = %v, want conflict", err)
	}
	if conflict.Field != "sku" || conflict.Value != "WDG-001" {
		t.Errorf("conflict names %s=%q, want sku=%q", conflict.Field, conflict.Value, "WDG-001")
	}

	lowStock := func() bool {
		t.Helper()
		low, err := uc.GetLowStockProducts(ctx, 10)
		if err != nil {
			t.Fatalf("GetLowStockProducts: %v", err)
		}
		for _, p := range low {
			if p.ID == widget.ID {
				return true
			}
		}
		return false
	}

	if _, err := uc.UpdateStock(ctx, widget.ID, 5); err != nil {
		t.Fatalf("UpdateStock(5): %v", err)
	}
	if !lowStock() {
		t.Error("stock 5 not reported as low")
	}
	if _, err := uc.UpdateStock(ctx, widget.ID, 15); err != nil {
		t.Fatalf("UpdateStock(15): %v", err)
	}
	if lowStock() {
		t.Error("stock 15 reported as low")
	}
}

func TestUpdateStock(t *testing.T) {
	ctx := context.Background()
	uc, repo := newUseCase(t)
	p := mustCreate(t, uc, dto.CreateProductInput{Name: "Widget", Price: price("1")})

	got, err := uc.UpdateStock(ctx, p.ID, 7)
	if err != nil {
		t.Fatalf("UpdateStock: %v", err)
	}
	if got.StockQuantity != 7 || got.UpdatedAt == nil || !got.UpdatedAt.Equal(fixedNow) {
		t.Errorf("product = %+v", got)
	}

	writes := repo.Writes()
	if _, err := uc.UpdateStock(ctx, p.ID, -1); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("negative stock err = %v", err)
	}
	if _, err := uc.UpdateStock(ctx, "missing", 1); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing product err = %v", err)
	}
	if repo.Writes() != writes {
		t.Errorf("rejected stock updates wrote %d times", repo.Writes()-writes)
	}
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)
	widget := mustCreate(t, uc, dto.CreateProductInput{Name: "Widget", Price: price("19.99"), SKU: "WDG-001"})
	mustCreate(t, uc, dto.CreateProductInput{Name: "Gadget", Price: price("5"), SKU: "GDG-001"})

	edit := *widget
	edit.Price = price("17.50")
	got, err := uc.UpdateProduct(ctx, &edit)
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if !got.Price.Equal(price("17.5")) {
		t.Errorf("price = %s", got.Price)
	}

	edit.SKU = strPtr("GDG-001")
	if _, err := uc.UpdateProduct(ctx, &edit); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("sku taken err = %v", err)
	}

	ghost := *widget
	ghost.ID = "missing"
	ghost.SKU = nil
	if _, err := uc.UpdateProduct(ctx, &ghost); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing product err = %v", err)
	}
}

func TestQueryHelpers(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)
	mustCreate(t, uc, dto.CreateProductInput{Name: "Widget", Description: "A blue widget", Price: price("19.99"), StockQuantity: 5, SKU: "WDG-001"})
	mustCreate(t, uc, dto.CreateProductInput{Name: "Gadget", Price: price("0"), StockQuantity: 50})
	mustCreate(t, uc, dto.CreateProductInput{Name: "Gizmo", Price: price("120.00"), StockQuantity: 0})

	search := []struct {
		term string
		want []string
	}{
		{"BLUE", []string{"Widget"}},
		{"wdg", []string{"Widget"}},
		{"g", []string{"Gadget", "Gizmo", "Widget"}},
		{"", []string{"Gadget", "Gizmo", "Widget"}},
		{"nothing", nil},
	}
	for _, tt := range search {
		found, err := uc.SearchProducts(ctx, tt.term)
		if err != nil {
			t.Fatalf("SearchProducts(%q): %v", tt.term, err)
		}
		if got := names(found); !equal(got, tt.want) {
			t.Errorf("SearchProducts(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}

	low, _ := uc.GetLowStockProducts(ctx, 5)
	if got := names(low); !equal(got, []string{"Gizmo"}) {
		t.Errorf("low stock below 5 = %v", got)
	}
	if _, err := uc.GetLowStockProducts(ctx, -1); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("negative threshold err = %v", err)
	}

	ranged, _ := uc.GetProductsByPriceRange(ctx, price("0"), price("19.99"))
	if got := names(ranged); !equal(got, []string{"Gadget", "Widget"}) {
		t.Errorf("price range = %v", got)
	}
	if _, err := uc.GetProductsByPriceRange(ctx, price("-1"), price("5")); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("negative min err = %v", err)
	}
	if _, err := uc.GetProductsByPriceRange(ctx, price("10"), price("5")); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("inverted range err = %v", err)
	}

	bySKU, err := uc.GetProductBySKU(ctx, "WDG-001")
	if err != nil || bySKU == nil || bySKU.Name != "Widget" {
		t.Errorf("GetProductBySKU = %v, %v", bySKU, err)
	}
}

func names(ps []*model.Product) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}

func equal(a, b []string) bool {
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

func strPtr(s string) *string { return &s }

func TestCreateProductRejectsNilInput(t *testing.T) {
	uc, repo := newUseCase(t)
	if _, err := uc.CreateProduct(context.Background(), nil); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("CreateProduct(nil) err = %v, want validation", err)
	}
	if repo.Writes() != 0 {
		t.Errorf("Writes = %d, want 0", repo.Writes())
	}
}
