package customer

import (
	"context"

	"github.com/fekuna/omnipos-kiosk-service/internal/customer/dto"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
)

type UseCase interface {
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
	// GetCustomer returns nil without error when the id is unknown.
	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
	CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, c *model.Customer) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error)
	// SearchCustomers matches term case-insensitively against first name,
	// last name and email. A blank term lists everyone.
	SearchCustomers(ctx context.Context, term string) ([]*model.Customer, error)
	CountCustomers(ctx context.Context) (int, error)
}
