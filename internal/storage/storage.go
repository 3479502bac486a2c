// Package storage picks the repository backend for the process and prepares
// its schema. Both backends converge on the same tables, so a database
// initialised by one can be opened by the other.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fekuna/omnipos-kiosk-service/internal/database"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/orm"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/postgres"
)

type Provider string

const (
	// ProviderORM is the GORM backend with a migration ledger.
	ProviderORM Provider = "orm"
	// ProviderSQL is the sqlx backend with an idempotent schema script.
	ProviderSQL Provider = "sql"
)

func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case ProviderORM, ProviderSQL:
		return p, nil
	default:
		return "", fmt.Errorf("unknown storage provider %q (want %q or %q)", s, ProviderORM, ProviderSQL)
	}
}

// Store holds one repository per serviced entity, all on the same backend.
type Store struct {
	Provider  Provider
	Customers repository.Repository[*model.Customer]
	Products  repository.Repository[*model.Product]
	Employees repository.Repository[*model.Employee]

	gormDB *gorm.DB
	sqlDB  *sqlx.DB
}

// Open creates the database when missing, brings its schema up to date with
// the provider's mechanism and returns the provider's repositories.
func Open(ctx context.Context, provider Provider, cfg *database.Config, log *zap.Logger) (*Store, error) {
	created, err := database.EnsureDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	s := &Store{Provider: provider}
	switch provider {
	case ProviderORM:
		db, err := database.NewGorm(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		s.gormDB = db
		if err := orm.Migrate(ctx, db, log); err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Customers = orm.New[*model.Customer](db)
		s.Products = orm.New[*model.Product](db)
		s.Employees = orm.New[*model.Employee](db)
	case ProviderSQL:
		db, err := database.NewSQLX(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.sqlDB = db
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = s.Close()
			return nil, err
		}
		s.Customers = postgres.NewPGRepository[*model.Customer](db)
		s.Products = postgres.NewPGRepository[*model.Product](db)
		s.Employees = postgres.NewPGRepository[*model.Employee](db)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", provider)
	}

	log.Info("Storage ready",
		zap.String("provider", string(provider)),
		zap.String("db_name", cfg.DBName),
		zap.Bool("created", created))
	return s, nil
}

func (s *Store) Close() error {
	if s.sqlDB != nil {
		return s.sqlDB.Close()
	}
	if s.gormDB != nil {
		db, err := s.gormDB.DB()
		if err != nil {
			return err
		}
		return db.Close()
	}
	return nil
}
