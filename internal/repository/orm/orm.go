// Package orm implements the repository contract on GORM. Query
// specifications compile to server-side WHERE clauses.
package orm

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/query"
)

type Repository[T model.Entity] struct {
	db      *gorm.DB
	table   string
	order   string
	columns map[string]struct{}
}

var _ repository.Repository[*model.Customer] = (*Repository[*model.Customer])(nil)

func New[T model.Entity](db *gorm.DB) *Repository[T] {
	sample := repository.New[T]()
	return &Repository[T]{
		db:      db,
		table:   sample.TableName(),
		order:   sample.DefaultOrder(),
		columns: query.ColumnSet(sample),
	}
}

func (r *Repository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	rows := make([]T, 0, 1)
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return zero, r.translate(ctx, "get by id", err)
	}
	if len(rows) == 0 {
		return zero, nil
	}
	return rows[0], nil
}

func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.Find(ctx, nil)
}

func (r *Repository[T]) Find(ctx context.Context, spec query.Spec) ([]T, error) {
	tx, err := r.where(ctx, spec)
	if err != nil {
		return nil, err
	}
	rows := make([]T, 0)
	if err := tx.Order(r.order).Find(&rows).Error; err != nil {
		return nil, r.translate(ctx, "find", err)
	}
	return rows, nil
}

func (r *Repository[T]) FirstOrDefault(ctx context.Context, spec query.Spec) (T, error) {
	var zero T
	tx, err := r.where(ctx, spec)
	if err != nil {
		return zero, err
	}
	rows := make([]T, 0, 1)
	if err := tx.Order(r.order).Limit(1).Find(&rows).Error; err != nil {
		return zero, r.translate(ctx, "first", err)
	}
	if len(rows) == 0 {
		return zero, nil
	}
	return rows[0], nil
}

func (r *Repository[T]) Add(ctx context.Context, entity T) (T, error) {
	repository.AssignIdentity(entity)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return entity, r.translate(ctx, "insert", err)
	}
	return entity, nil
}

func (r *Repository[T]) AddRange(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}
	for _, e := range entities {
		repository.AssignIdentity(e)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(entities).Error
	})
	if err != nil {
		return r.translate(ctx, "insert batch", err)
	}
	return nil
}

// Update writes every column of entity to the row with its id. Select("*")
// keeps zero values (false, 0, NULL) in the statement; a missing row is left
// missing.
func (r *Repository[T]) Update(ctx context.Context, entity T) error {
	err := r.db.WithContext(ctx).Model(entity).Select("*").Updates(entity).Error
	if err != nil {
		return r.translate(ctx, "update", err)
	}
	return nil
}

func (r *Repository[T]) Delete(ctx context.Context, entity T) error {
	return r.DeleteByID(ctx, entity.GetID())
}

func (r *Repository[T]) DeleteByID(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(repository.New[T]()).Error
	if err != nil {
		return r.translate(ctx, "delete", err)
	}
	return nil
}

func (r *Repository[T]) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(repository.New[T]()).Where("id = ?", id).Count(&n).Error
	if err != nil {
		return false, r.translate(ctx, "exists", err)
	}
	return n > 0, nil
}

func (r *Repository[T]) Count(ctx context.Context) (int, error) {
	return r.CountWhere(ctx, nil)
}

func (r *Repository[T]) CountWhere(ctx context.Context, spec query.Spec) (int, error) {
	tx, err := r.where(ctx, spec)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, r.translate(ctx, "count", err)
	}
	return int(n), nil
}

func (r *Repository[T]) where(ctx context.Context, spec query.Spec) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Model(repository.New[T]())
	clause, args, err := query.ToSQL(spec, r.columns)
	if err != nil {
		return nil, apperror.StorageUnavailable("compile query on "+r.table, err)
	}
	if clause != "" {
		tx = tx.Where(clause, args...)
	}
	return tx, nil
}

func (r *Repository[T]) translate(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == repository.CodeUniqueViolation {
		return repository.UniqueViolation(r.table, pgErr.Detail, err)
	}
	return apperror.StorageUnavailable(op+" "+r.table, err)
}
