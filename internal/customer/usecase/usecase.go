package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/customer"
	"github.com/fekuna/omnipos-kiosk-service/internal/customer/dto"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/query"
	"github.com/fekuna/omnipos-kiosk-service/internal/validate"
)

const entityName = "customer"

type Option func(*customerUseCase)

// WithClock replaces the time source used for update timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *customerUseCase) { uc.now = now }
}

type customerUseCase struct {
	repo   customer.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewCustomerUseCase(repo customer.Repository, log *zap.Logger, opts ...Option) customer.UseCase {
	uc := &customerUseCase{
		repo:   repo,
		logger: log,
		now:    model.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *customerUseCase) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	return uc.repo.GetAll(ctx)
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	if input == nil {
		return nil, apperror.Validation(entityName, "is required")
	}
	c := &model.Customer{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     optional(input.Phone),
	}
	if err := validate.Struct(c); err != nil {
		return nil, err
	}
	if err := uc.ensureEmailFree(ctx, c.Email, ""); err != nil {
		return nil, err
	}

	c, err := uc.repo.Add(ctx, c)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("Customer created", zap.String("id", c.ID))
	return c, nil
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if c == nil {
		return nil, apperror.Validation(entityName, "is required")
	}
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	if c.Phone != nil {
		c.Phone = optional(*c.Phone)
	}
	if err := validate.Struct(c); err != nil {
		return nil, err
	}

	exists, err := uc.repo.Exists(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound(entityName, c.ID)
	}
	if err := uc.ensureEmailFree(ctx, c.Email, c.ID); err != nil {
		return nil, err
	}

	c.Touch(uc.now())
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.logger.Debug("Customer updated", zap.String("id", c.ID))
	return c, nil
}

func (uc *customerUseCase) DeleteCustomer(ctx context.Context, id string) error {
	return uc.repo.DeleteByID(ctx, id)
}

func (uc *customerUseCase) GetCustomerByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return uc.repo.FirstOrDefault(ctx, query.Where("email", query.EqFold, strings.TrimSpace(email)))
}

func (uc *customerUseCase) SearchCustomers(ctx context.Context, term string) ([]*model.Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return uc.repo.GetAll(ctx)
	}
	return uc.repo.Find(ctx, query.ContainsAny(term, "first_name", "last_name", "email"))
}

func (uc *customerUseCase) CountCustomers(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

// ensureEmailFree fails with a conflict when another customer, other than
// excludeID, already uses email. Emails compare case-insensitively.
func (uc *customerUseCase) ensureEmailFree(ctx context.Context, email, excludeID string) error {
	spec := query.Spec(query.Where("email", query.EqFold, email))
	if excludeID != "" {
		spec = query.And(spec, query.Where("id", query.NotEq, excludeID))
	}
	existing, err := uc.repo.FirstOrDefault(ctx, spec)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.Conflict(entityName, "email", email)
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
