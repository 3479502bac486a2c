package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/fekuna/omnipos-kiosk-service/internal/database"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
}

type ServerConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`
}

type StorageConfig struct {
	// Provider is "orm" or "sql" and is fixed for the life of the process.
	Provider string `envconfig:"KIOSK_STORAGE_PROVIDER" default:"orm"`
}

type LoggerConfig struct {
	Level             string `envconfig:"LOGGER_LEVEL" default:"info"`
	Encoding          string `envconfig:"LOGGER_ENCODING" default:"console"`
	File              string `envconfig:"LOGGER_FILE"`
	DisableCaller     bool   `envconfig:"LOGGER_DISABLE_CALLER" default:"false"`
	DisableStacktrace bool   `envconfig:"LOGGER_DISABLE_STACKTRACE" default:"true"`
}

type PostgresConfig struct {
	Host            string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port            string `envconfig:"POSTGRES_PORT" default:"5432"`
	User            string `envconfig:"POSTGRES_USER" default:"kiosk"`
	Password        string `envconfig:"POSTGRES_PASSWORD" default:"kiosk"`
	DBName          string `envconfig:"POSTGRES_DB" default:"kiosk"`
	AdminDBName     string `envconfig:"POSTGRES_ADMIN_DB" default:"postgres"`
	SSLMode         string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxOpenConns    int    `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int    `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime int    `envconfig:"POSTGRES_CONN_MAX_LIFETIME" default:"300"`
	ConnMaxIdleTime int    `envconfig:"POSTGRES_CONN_MAX_IDLE_TIME" default:"60"`
}

// Database converts the env settings into connection settings. Lifetimes
// are configured in seconds.
func (p PostgresConfig) Database() *database.Config {
	return &database.Config{
		Host:            p.Host,
		Port:            p.Port,
		User:            p.User,
		Password:        p.Password,
		DBName:          p.DBName,
		AdminDBName:     p.AdminDBName,
		SSLMode:         p.SSLMode,
		MaxOpenConns:    p.MaxOpenConns,
		MaxIdleConns:    p.MaxIdleConns,
		ConnMaxLifetime: time.Duration(p.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(p.ConnMaxIdleTime) * time.Second,
	}
}

// LoadEnv reads a .env file when present, then the process environment.
func LoadEnv() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}
