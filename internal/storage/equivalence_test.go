package storage

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	customerdto "github.com/fekuna/omnipos-kiosk-service/internal/customer/dto"
	customeruc "github.com/fekuna/omnipos-kiosk-service/internal/customer/usecase"
	employeedto "github.com/fekuna/omnipos-kiosk-service/internal/employee/dto"
	employeeuc "github.com/fekuna/omnipos-kiosk-service/internal/employee/usecase"
	productdto "github.com/fekuna/omnipos-kiosk-service/internal/product/dto"
	productuc "github.com/fekuna/omnipos-kiosk-service/internal/product/usecase"
)

// observation is what a caller can see after each step, with ids and
// timestamps left out.
type observation struct {
	Step      string
	Customers []string
	ErrKind   apperror.Kind
}

func runJaneDoe(t *testing.T, provider Provider) []observation {
	t.Helper()
	ctx := context.Background()
	s := openStore(t, provider, freshDatabase(t))
	uc := customeruc.NewCustomerUseCase(s.Customers, zap.NewNop())

	var out []observation
	record := func(step string, err error) {
		t.Helper()
		all, listErr := uc.ListCustomers(ctx)
		if listErr != nil {
			t.Fatalf("%s: ListCustomers: %v", step, listErr)
		}
		var rows []string
		for _, c := range all {
			phone := "-"
			if c.Phone != nil {
				phone = *c.Phone
			}
			rows = append(rows, fmt.Sprintf("%s|%s|%s", c.FullName(), c.Email, phone))
		}
		out = append(out, observation{Step: step, Customers: rows, ErrKind: apperror.KindOf(err)})
	}

	jane, err := uc.CreateCustomer(ctx, &customerdto.CreateCustomerInput{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	record("create", nil)

	_, err = uc.CreateCustomer(ctx, &customerdto.CreateCustomerInput{FirstName: "Janet", LastName: "Doe", Email: "jane@x.com"})
	record("duplicate email", err)

	_, err = uc.CreateCustomer(ctx, &customerdto.CreateCustomerInput{FirstName: "No", LastName: "Mail", Email: "not-an-email"})
	record("malformed email", err)

	phone := "555-0100"
	jane.Phone = &phone
	if _, err := uc.UpdateCustomer(ctx, jane); err != nil {
		t.Fatalf("UpdateCustomer: %v", err)
	}
	record("update phone", nil)

	ghost := *jane
	ghost.ID = "00000000-0000-0000-0000-000000000000"
	_, err = uc.UpdateCustomer(ctx, &ghost)
	record("update missing", err)

	if err := uc.DeleteCustomer(ctx, jane.ID); err != nil {
		t.Fatalf("DeleteCustomer: %v", err)
	}
	record("delete", nil)

	err = uc.DeleteCustomer(ctx, jane.ID)
	record("delete again", err)
	return out
}

func TestBackendsAgree(t *testing.T) {
	if server == nil {
		t.Skip("embedded postgres not running")
	}
	viaORM := runJaneDoe(t, ProviderORM)
	viaSQL := runJaneDoe(t, ProviderSQL)

	if !reflect.DeepEqual(viaORM, viaSQL) {
		t.Fatalf("backends disagree\norm: %+v\nsql: %+v", viaORM, viaSQL)
	}

	want := map[string]apperror.Kind{
		"duplicate email": apperror.KindConflict,
		"malformed email": apperror.KindValidation,
		"update missing":  apperror.KindNotFound,
	}
	for _, o := range viaORM {
		if o.ErrKind != want[o.Step] {
			t.Errorf("%s: error kind %v, want %v", o.Step, o.ErrKind, want[o.Step])
		}
	}
	if last := viaORM[len(viaORM)-1]; len(last.Customers) != 0 {
		t.Errorf("customers left after delete: %v", last.Customers)
	}
}

func TestServicesOnBothBackends(t *testing.T) {
	for _, provider := range []Provider{ProviderORM, ProviderSQL} {
		provider := provider
		t.Run(string(provider), func(t *testing.T) {
			ctx := context.Background()
			s := openStore(t, provider, freshDatabase(t))

			products := productuc.NewProductUseCase(s.Products, zap.NewNop())
			widget, err := products.CreateProduct(ctx, &productdto.CreateProductInput{
				Name: "Widget", Price: decimal.RequireFromString("19.99"), StockQuantity: 50, SKU: "WDG-001",
			})
			if err != nil {
				t.Fatalf("CreateProduct: %v", err)
			}
			if _, err := products.UpdateStock(ctx, widget.ID, 5); err != nil {
				t.Fatalf("UpdateStock: %v", err)
			}
			low, err := products.GetLowStockProducts(ctx, 10)
			if err != nil || len(low) != 1 || low[0].ID != widget.ID {
				t.Fatalf("GetLowStockProducts = %v, %v", low, err)
			}
			found, err := products.SearchProducts(ctx, "wdg")
			if err != nil || len(found) != 1 {
				t.Fatalf("SearchProducts = %v, %v", found, err)
			}

			employees := employeeuc.NewEmployeeUseCase(s.Employees, zap.NewNop())
			sam, err := employees.CreateEmployee(ctx, &employeedto.CreateEmployeeInput{
				FirstName:  "Sam",
				LastName:   "Clerk",
				Email:      "sam@kiosk.test",
				HireDate:   time.Now().Add(-24 * time.Hour),
				HourlyRate: decimal.RequireFromString("15.50"),
			})
			if err != nil {
				t.Fatalf("CreateEmployee: %v", err)
			}
			if err := employees.DeactivateEmployee(ctx, sam.ID); err != nil {
				t.Fatalf("DeactivateEmployee: %v", err)
			}
			inactive, err := employees.GetInactiveEmployees(ctx)
			if err != nil || len(inactive) != 1 || inactive[0].IsActive {
				t.Fatalf("GetInactiveEmployees = %v, %v", inactive, err)
			}
			stored, err := employees.GetEmployee(ctx, sam.ID)
			if err != nil || stored == nil {
				t.Fatalf("GetEmployee = %v, %v", stored, err)
			}
			if !stored.HireDate.Equal(sam.HireDate) || !stored.HourlyRate.Equal(sam.HourlyRate) {
				t.Errorf("stored employee = %+v, want %+v", stored, sam)
			}
		})
	}
}
