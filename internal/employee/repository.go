package employee

import (
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository"
)

type Repository = repository.Repository[*model.Employee]
