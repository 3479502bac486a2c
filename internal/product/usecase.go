package product

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/product/dto"
)

type UseCase interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	GetProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	// SearchProducts matches name, description and SKU case-insensitively.
	SearchProducts(ctx context.Context, term string) ([]*model.Product, error)
	// GetLowStockProducts lists products with stock strictly below threshold.
	GetLowStockProducts(ctx context.Context, threshold int) ([]*model.Product, error)
	// GetProductsByPriceRange is inclusive on both ends.
	GetProductsByPriceRange(ctx context.Context, low, high decimal.Decimal) ([]*model.Product, error)
	UpdateStock(ctx context.Context, id string, quantity int) (*model.Product, error)
	CountProducts(ctx context.Context) (int, error)
}
