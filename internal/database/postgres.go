// Package database opens PostgreSQL handles for both storage backends.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
)

// AdminDatabase is the server's default maintenance database.
const AdminDatabase = "postgres"

// codeInvalidCatalogName is the SQLSTATE for a connect to a database that
// does not exist.
const codeInvalidCatalogName = "3D000"

type Config struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	// AdminDBName is only dialled to create DBName. Empty means AdminDatabase.
	AdminDBName     string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN is the connection string for the target database.
func (c *Config) DSN() string {
	return c.dsn(c.DBName)
}

// AdminDSN is the connection string for the maintenance database on the
// same server.
func (c *Config) AdminDSN() string {
	return c.dsn(c.adminDBName())
}

func (c *Config) adminDBName() string {
	if c.AdminDBName != "" {
		return c.AdminDBName
	}
	return AdminDatabase
}

func (c *Config) dsn(dbName string) string {
	parts := []string{
		"host=" + quoteDSN(c.Host),
		"port=" + quoteDSN(c.Port),
		"user=" + quoteDSN(c.User),
		"password=" + quoteDSN(c.Password),
		"dbname=" + quoteDSN(dbName),
	}
	if c.SSLMode != "" {
		parts = append(parts, "sslmode="+quoteDSN(c.SSLMode))
	}
	return strings.Join(parts, " ")
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteDSN(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// NewSQLX connects the direct-SQL backend through lib/pq.
func NewSQLX(ctx context.Context, cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, apperror.StorageUnavailable("connect "+cfg.DBName, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	return db, nil
}

// NewGorm connects the ORM backend. Driver errors are left untranslated so
// the repository can read the constraint detail off *pgconn.PgError.
func NewGorm(ctx context.Context, cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(gormpg.Open(cfg.DSN()), &gorm.Config{
		Logger: NewGormLogger(log),
	})
	if err != nil {
		return nil, apperror.StorageUnavailable("connect "+cfg.DBName, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, apperror.StorageUnavailable("connect "+cfg.DBName, err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, apperror.StorageUnavailable("ping "+cfg.DBName, err)
	}
	return db, nil
}

// EnsureDatabase connects to the target database and, only when the server
// reports it missing, creates it through the maintenance database. It
// reports whether the database was created.
func EnsureDatabase(ctx context.Context, cfg *Config, log *zap.Logger) (bool, error) {
	target, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err == nil {
		_ = target.Close()
		return false, nil
	}
	if !IsMissingDatabase(err) {
		return false, apperror.StorageUnavailable("connect "+cfg.DBName, err)
	}

	adminDB := cfg.adminDBName()
	admin, err := sqlx.ConnectContext(ctx, "postgres", cfg.AdminDSN())
	if err != nil {
		return false, apperror.StorageUnavailable("connect "+adminDB, err)
	}
	defer admin.Close()

	_, err = admin.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(cfg.DBName)))
	if err != nil {
		var pqErr *pq.Error
		// Another process created it between the connect and the CREATE.
		if errors.As(err, &pqErr) && pqErr.Code == "42P04" {
			return false, nil
		}
		return false, apperror.StorageUnavailable("create database "+cfg.DBName, err)
	}
	log.Info("Created database", zap.String("db_name", cfg.DBName), zap.String("admin_db", adminDB))
	return true, nil
}

// IsMissingDatabase reports whether err is the server refusing a connection
// because the requested database does not exist.
func IsMissingDatabase(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeInvalidCatalogName
}
