package employee

import (
	"context"

	"github.com/fekuna/omnipos-kiosk-service/internal/employee/dto"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
)

type UseCase interface {
	ListEmployees(ctx context.Context) ([]*model.Employee, error)
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
	CreateEmployee(ctx context.Context, input *dto.CreateEmployeeInput) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, e *model.Employee) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	GetEmployeeByEmail(ctx context.Context, email string) (*model.Employee, error)
	SearchEmployees(ctx context.Context, term string) ([]*model.Employee, error)
	GetActiveEmployees(ctx context.Context) ([]*model.Employee, error)
	GetInactiveEmployees(ctx context.Context) ([]*model.Employee, error)

	// ActivateEmployee and DeactivateEmployee do nothing when the employee
	// is already in the target state.
	ActivateEmployee(ctx context.Context, id string) error
	DeactivateEmployee(ctx context.Context, id string) error
	CountEmployees(ctx context.Context) (int, error)
}
