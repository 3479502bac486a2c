package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/employee"
	"github.com/fekuna/omnipos-kiosk-service/internal/employee/dto"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/query"
	"github.com/fekuna/omnipos-kiosk-service/internal/validate"
)

const entityName = "employee"

// maxHourlyRate is the first value numeric(10,2) cannot hold.
var maxHourlyRate = decimal.New(1, 8)

type Option func(*employeeUseCase)

// WithClock replaces the time source used for hire date checks and update
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(uc *employeeUseCase) { uc.now = now }
}

type employeeUseCase struct {
	repo   employee.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewEmployeeUseCase(repo employee.Repository, log *zap.Logger, opts ...Option) employee.UseCase {
	uc := &employeeUseCase{
		repo:   repo,
		logger: log,
		now:    model.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *employeeUseCase) ListEmployees(ctx context.Context) ([]*model.Employee, error) {
	return uc.repo.GetAll(ctx)
}

func (uc *employeeUseCase) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	return uc.repo.GetByID(ctx, id)
}

func (uc *employeeUseCase) CreateEmployee(ctx context.Context, input *dto.CreateEmployeeInput) (*model.Employee, error) {
	if input == nil {
		return nil, apperror.Validation(entityName, "is required")
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	e := &model.Employee{
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		Email:      strings.TrimSpace(input.Email),
		Phone:      optional(input.Phone),
		HireDate:   input.HireDate,
		HourlyRate: input.HourlyRate,
		IsActive:   active,
	}
	if err := uc.checkEmployee(e); err != nil {
		return nil, err
	}
	if err := uc.ensureEmailFree(ctx, e.Email, ""); err != nil {
		return nil, err
	}

	e, err := uc.repo.Add(ctx, e)
	if err != nil {
		return nil, err
	}
	uc.logger.Debug("Employee created", zap.String("id", e.ID))
	return e, nil
}

func (uc *employeeUseCase) UpdateEmployee(ctx context.Context, e *model.Employee) (*model.Employee, error) {
	if e == nil {
		return nil, apperror.Validation(entityName, "is required")
	}
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Email = strings.TrimSpace(e.Email)
	if e.Phone != nil {
		e.Phone = optional(*e.Phone)
	}
	if err := uc.checkEmployee(e); err != nil {
		return nil, err
	}

	exists, err := uc.repo.Exists(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound(entityName, e.ID)
	}
	if err := uc.ensureEmailFree(ctx, e.Email, e.ID); err != nil {
		return nil, err
	}

	e.Touch(uc.now())
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	uc.logger.Debug("Employee updated", zap.String("id", e.ID))
	return e, nil
}

func (uc *employeeUseCase) DeleteEmployee(ctx context.Context, id string) error {
	return uc.repo.DeleteByID(ctx, id)
}

func (uc *employeeUseCase) GetEmployeeByEmail(ctx context.Context, email string) (*model.Employee, error) {
	return uc.repo.FirstOrDefault(ctx, query.Where("email", query.EqFold, strings.TrimSpace(email)))
}

func (uc *employeeUseCase) SearchEmployees(ctx context.Context, term string) ([]*model.Employee, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return uc.repo.GetAll(ctx)
	}
	return uc.repo.Find(ctx, query.ContainsAny(term, "first_name", "last_name", "email"))
}

func (uc *employeeUseCase) GetActiveEmployees(ctx context.Context) ([]*model.Employee, error) {
	return uc.repo.Find(ctx, query.Equal("is_active", true))
}

func (uc *employeeUseCase) GetInactiveEmployees(ctx context.Context) ([]*model.Employee, error) {
	return uc.repo.Find(ctx, query.Equal("is_active", false))
}

func (uc *employeeUseCase) ActivateEmployee(ctx context.Context, id string) error {
	return uc.setActive(ctx, id, true)
}

func (uc *employeeUseCase) DeactivateEmployee(ctx context.Context, id string) error {
	return uc.setActive(ctx, id, false)
}

func (uc *employeeUseCase) CountEmployees(ctx context.Context) (int, error) {
	return uc.repo.Count(ctx)
}

// setActive changes only the flag, so it writes through the repository
// without re-running the update checks.
func (uc *employeeUseCase) setActive(ctx context.Context, id string, active bool) error {
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return apperror.NotFound(entityName, id)
	}
	if e.IsActive == active {
		return nil
	}

	e.IsActive = active
	e.Touch(uc.now())
	if err := uc.repo.Update(ctx, e); err != nil {
		return err
	}
	uc.logger.Debug("Employee status changed", zap.String("id", id), zap.Bool("active", active))
	return nil
}

func (uc *employeeUseCase) checkEmployee(e *model.Employee) error {
	if err := validate.Struct(e); err != nil {
		return err
	}
	if e.HireDate.IsZero() {
		return apperror.Validation("hire_date", "is required")
	}
	e.HireDate = e.HireDate.UTC().Truncate(time.Microsecond)
	if e.HireDate.After(uc.now()) {
		return apperror.Validation("hire_date", "must not be in the future")
	}
	switch {
	case !e.HourlyRate.IsPositive():
		return apperror.Validation("hourly_rate", "must be greater than zero")
	case !e.HourlyRate.Equal(e.HourlyRate.Round(2)):
		return apperror.Validation("hourly_rate", "must have at most 2 decimal places")
	case e.HourlyRate.GreaterThanOrEqual(maxHourlyRate):
		return apperror.Validation("hourly_rate", "must be less than %s", maxHourlyRate)
	}
	return nil
}

func (uc *employeeUseCase) ensureEmailFree(ctx context.Context, email, excludeID string) error {
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
