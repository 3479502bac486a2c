package postgres

import (
	"context"
	_ "embed"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the initialization script.
func Schema() string { return schemaSQL }

// EnsureSchema runs the initialization script. Running it again is a no-op.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperror.StorageUnavailable("ensure schema", errors.Wrap(err, "schema.sql"))
	}
	return nil
}
