package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/product"
	"github.com/fekuna/omnipos-kiosk-service/internal/product/dto"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/query"
	"github.com/fekuna/omnipos-kiosk-service/internal/validate"
)

const entityName = "product"

// maxPrice is the first value numeric(18,2) cannot hold.
var maxPrice = decimal.New(1, 16)

type Option func(*productUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *productUseCase) { uc.now = now }
}

type productUseCase struct {
	repo   product.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewProductUseCase(repo product.Repository, log *zap.Logger, opts ...Option) product.UseCase {
	uc := &productUseCase{
		repo:   repo,
		logger: log,
		now:    model.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return uc.repo.GetAll(ctx)
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input == nil {
		return nil, apperror.Validation(entityName, "is required")
	}
	p := &model.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   optional(input.Description),
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		SKU:           optional(input.SKU),
	}
	if err := checkProduct(p); err != nil {
		return nil, err
	}
	if err := uc.ensureSKUFree(ctx, p.SKU, ""); err != nil {
		return nil, err
	}

	p, err := uc.repo.Add(ctx, p)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("Product created", zap.String("id", p.ID))
	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	if p == nil {
		return nil, apperror.Validation(entityName, "is required")
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Description != nil {
		p.Description = optional(*p.Description)
	}
	if p.SKU != nil {
		p.SKU = optional(*p.SKU)
	}
	if err := checkProduct(p); err != nil {
		return nil, err
	}

	exists, err := uc.repo.Exists(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound(entityName, p.ID)
	}
	if err := uc.ensureSKUFree(ctx, p.SKU, p.ID); err != nil {
		return nil, err
	}

	p.Touch(uc.now())
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Debug("Product updated", zap.String("id", p.ID))
	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	return uc.repo.DeleteByID(ctx, id)
}

func (uc *productUseCase) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return uc.repo.FirstOrDefault(ctx, query.Equal("sku", strings.TrimSpace(sku)))
}

func (uc *productUseCase) SearchProducts(ctx context.Context, term string) ([]*model.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return uc.repo.GetAll(ctx)
	}
	return uc.repo.Find(ctx, query.ContainsAny(term, "name", "description", "sku"))
}

func (uc *productUseCase) GetLowStockProducts(ctx context.Context, threshold int) ([]*model.Product, error) {
	if threshold < 0 {
		return nil, apperror.Validation("threshold", "must not be negative")
	}
	return uc.repo.Find(ctx, query.Where("stock_quantity", query.Lt, threshold))
}

func (uc *productUseCase) GetProductsByPriceRange(ctx context.Context, low, high decimal.Decimal) ([]*model.Product, error) {
	if low.IsNegative() {
		return nil, apperror.Validation("min_price", "must not be negative")
	}
	if low.GreaterThan(high) {
		return nil, apperror.Validation("max_price", "must not be less than min_price %s", low)
	}
	return uc.repo.Find(ctx, query.And(
		query.Where("price", query.Gte, low),
		query.Where("price", query.Lte, high),
	))
}

func (uc *productUseCase) UpdateStock(ctx context.Context, id string, quantity int) (*model.Product, error) {
	if err := checkStock(quantity); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound(entityName, id)
	}

	p.StockQuantity = quantity
	p.Touch(uc.now())
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.logger.Debug("Stock updated", zap.String("id", id), zap.Int("quantity", quantity))
	return p, nil
}

func (uc *productUseCase) CountProducts(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

func (uc *productUseCase) ensureSKUFree(ctx context.Context, sku *string, excludeID string) error {
	if sku == nil {
		return nil
	}
	spec := query.Spec(query.Equal("sku", *sku))
	if excludeID != "" {
		spec = query.And(spec, query.Where("id", query.NotEq, excludeID))
	}
	existing, err := uc.repo.FirstOrDefault(ctx, spec)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.Conflict(entityName, "sku", *sku)
	}
	return nil
}

func checkProduct(p *model.Product) error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	switch {
	case p.Price.IsNegative():
		return apperror.Validation("price", "must not be negative")
	case !p.Price.Equal(p.Price.Round(2)):
		return apperror.Validation("price", "must have at most 2 decimal places")
	case p.Price.GreaterThanOrEqual(maxPrice):
		return apperror.Validation("price", "must be less than %s", maxPrice)
	}
	return checkStock(p.StockQuantity)
}

func checkStock(quantity int) error {
	if quantity < 0 {
		return apperror.Validation("stock_quantity", "must not be negative")
	}
	if quantity > math.MaxInt32 {
		return apperror.Validation("stock_quantity", "must be at most %d", math.MaxInt32)
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
