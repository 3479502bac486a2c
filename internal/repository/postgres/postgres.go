// Package postgres implements the repository contract with hand-written
// statements over sqlx. Statements cannot carry arbitrary query
// specifications, so Find, FirstOrDefault and CountWhere load the table and
// filter it in process. That is O(n) per call.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/query"
)

type statements struct {
	insert     string
	update     string
	selectAll  string
	selectByID string
	deleteByID string
	exists     string
	count      string
}

func buildStatements(table, order string, columns []string) statements {
	named := make([]string, len(columns))
	sets := make([]string, 0, len(columns))
	for i, c := range columns {
		named[i] = ":" + c
		if c != "id" {
			sets = append(sets, c+" = :"+c)
		}
	}
	cols := strings.Join(columns, ", ")
	return statements{
		insert:     fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, cols, strings.Join(named, ", ")),
		update:     fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", table, strings.Join(sets, ", ")),
		selectAll:  fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", cols, table, order),
		selectByID: fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", cols, table),
		deleteByID: fmt.Sprintf("DELETE FROM %s WHERE id = $1", table),
		exists:     fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", table),
		count:      fmt.Sprintf("SELECT count(*) FROM %s", table),
	}
}

type PGRepository[T model.Entity] struct {
	DB    *sqlx.DB
	table string
	stmt  statements
}

var _ repository.Repository[*model.Customer] = (*PGRepository[*model.Customer])(nil)

func NewPGRepository[T model.Entity](db *sqlx.DB) *PGRepository[T] {
	sample := repository.New[T]()
	return &PGRepository[T]{
		DB:    db,
		table: sample.TableName(),
		stmt:  buildStatements(sample.TableName(), sample.DefaultOrder(), query.Columns(sample)),
	}
}

func (r *PGRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	entity := repository.New[T]()
	err := r.DB.GetContext(ctx, entity, r.stmt.selectByID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, nil
		}
		return zero, r.translate(ctx, "get by id", err)
	}
	return entity, nil
}

func (r *PGRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	if err := r.DB.SelectContext(ctx, &rows, r.stmt.selectAll); err != nil {
		return nil, r.translate(ctx, "select", err)
	}
	return rows, nil
}

func (r *PGRepository[T]) Find(ctx context.Context, spec query.Spec) ([]T, error) {
	all, err := r.GetAll(ctx)
	if err != nil || spec == nil {
		return all, err
	}
	out := make([]T, 0, len(all))
	for _, row := range all {
		ok, err := query.Match(spec, row)
		if err != nil {
			return nil, apperror.StorageUnavailable("filter "+r.table, err)
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *PGRepository[T]) FirstOrDefault(ctx context.Context, spec query.Spec) (T, error) {
	var zero T
	rows, err := r.Find(ctx, spec)
	if err != nil || len(rows) == 0 {
		return zero, err
	}
	return rows[0], nil
}

func (r *PGRepository[T]) Add(ctx context.Context, entity T) (T, error) {
	repository.AssignIdentity(entity)
	if _, err := r.DB.NamedExecContext(ctx, r.stmt.insert, entity); err != nil {
		return entity, r.translate(ctx, "insert", err)
	}
	return entity, nil
}

func (r *PGRepository[T]) AddRange(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return r.translate(ctx, "begin", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, e := range entities {
		repository.AssignIdentity(e)
		if _, err := tx.NamedExecContext(ctx, r.stmt.insert, e); err != nil {
			return r.translate(ctx, "insert batch", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return r.translate(ctx, "commit", err)
	}
	return nil
}

func (r *PGRepository[T]) Update(ctx context.Context, entity T) error {
	if _, err := r.DB.NamedExecContext(ctx, r.stmt.update, entity); err != nil {
		return r.translate(ctx, "update", err)
	}
	return nil
}

func (r *PGRepository[T]) Delete(ctx context.Context, entity T) error {
	return r.DeleteByID(ctx, entity.GetID())
}

func (r *PGRepository[T]) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, r.stmt.deleteByID, id); err != nil {
		return r.translate(ctx, "delete", err)
	}
	return nil
}

func (r *PGRepository[T]) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	if err := r.DB.GetContext(ctx, &exists, r.stmt.exists, id); err != nil {
		return false, r.translate(ctx, "exists", err)
	}
	return exists, nil
}

func (r *PGRepository[T]) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, r.stmt.count); err != nil {
		return 0, r.translate(ctx, "count", err)
	}
	return n, nil
}

func (r *PGRepository[T]) CountWhere(ctx context.Context, spec query.Spec) (int, error) {
	if spec == nil {
		return r.Count(ctx)
	}
	rows, err := r.Find(ctx, spec)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *PGRepository[T]) translate(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == repository.CodeUniqueViolation {
		return repository.UniqueViolation(r.table, pqErr.Detail, err)
	}
	return apperror.StorageUnavailable(op, errors.Wrap(err, r.table))
}
