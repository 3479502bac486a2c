package orm

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
)

type migration struct {
	Version string
	Name    string
	Tables  []model.Entity
}

// migrations run in slice order; versions never change once released.
var migrations = []migration{
	{Version: "0001", Name: "core_tables", Tables: model.CoreTables},
	{Version: "0002", Name: "sales_tables", Tables: model.SalesTables},
	{Version: "0003", Name: "payroll_tables", Tables: model.PayrollTables},
}

// SchemaMigration is one row of the migration ledger.
type SchemaMigration struct {
	Version   string    `gorm:"column:version;type:varchar(20);primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(100);not null"`
	AppliedAt time.Time `gorm:"column:applied_at;type:timestamptz;not null"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

// Migrate brings the schema up to the latest migration. Each pending
// migration runs in its own transaction together with its ledger row.
//
// A database whose tables were created by the SQL backend's script has an
// empty ledger; when every expected table is already there the ledger is
// backfilled instead of re-running the DDL.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return migrateErr(ctx, "create ledger", err)
	}

	var applied []SchemaMigration
	if err := db.Order("version").Find(&applied).Error; err != nil {
		return migrateErr(ctx, "read ledger", err)
	}

	if len(applied) == 0 {
		present, err := countTables(db, model.TableNames())
		if err != nil {
			return migrateErr(ctx, "inspect tables", err)
		}
		if present == len(model.TableNames()) {
			if err := backfill(db); err != nil {
				return migrateErr(ctx, "backfill ledger", err)
			}
			log.Info("Existing schema detected, migration ledger backfilled",
				zap.Int("tables", present), zap.Int("migrations", len(migrations)))
			return nil
		}
	}

	done := make(map[string]struct{}, len(applied))
	for _, m := range applied {
		done[m.Version] = struct{}{}
	}
	for _, m := range migrations {
		if _, ok := done[m.Version]; ok {
			continue
		}
		m := m
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(tableModels(m.Tables)...); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.Version, Name: m.Name, AppliedAt: model.Now()}).Error
		})
		if err != nil {
			return migrateErr(ctx, "apply "+m.Version+"_"+m.Name, err)
		}
		log.Info("Applied migration", zap.String("version", m.Version), zap.String("name", m.Name))
	}
	return nil
}

func countTables(db *gorm.DB, names []string) (int, error) {
	var n int64
	err := db.Raw(
		`SELECT count(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name IN ?`,
		names,
	).Scan(&n).Error
	return int(n), err
}

func backfill(db *gorm.DB) error {
	now := model.Now()
	rows := make([]SchemaMigration, 0, len(migrations))
	for _, m := range migrations {
		rows = append(rows, SchemaMigration{Version: m.Version, Name: m.Name, AppliedAt: now})
	}
	return db.Create(&rows).Error
}

func tableModels(tables []model.Entity) []interface{} {
	out := make([]interface{}, len(tables))
	for i, t := range tables {
		out[i] = t
	}
	return out
}

func migrateErr(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return apperror.StorageUnavailable("migrate", errors.Wrap(err, op))
}
