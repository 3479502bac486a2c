// Package memory is an in-process implementation of the repository contract.
// It backs the service tests and counts writes so tests can assert that an
// operation did not touch storage.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/query"
)

type Option func(*options)

type options struct {
	unique []uniqueColumn
}

type uniqueColumn struct {
	name string
	op   query.Op
}

// Unique makes the store reject a second non-NULL value in column, the way
// the unique indexes of the real schema do.
func Unique(column string) Option {
	return func(o *options) { o.unique = append(o.unique, uniqueColumn{column, query.Eq}) }
}

// UniqueFold is Unique compared case-insensitively, like an index on
// lower(column).
func UniqueFold(column string) Option {
	return func(o *options) { o.unique = append(o.unique, uniqueColumn{column, query.EqFold}) }
}

type Repository[T model.Entity] struct {
	mu     sync.RWMutex
	rows   map[string]T
	opts   options
	writes atomic.Int64
	fail   error
}

var _ repository.Repository[*model.Customer] = (*Repository[*model.Customer])(nil)

func New[T model.Entity](opts ...Option) *Repository[T] {
	r := &Repository[T]{rows: make(map[string]T)}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

// Writes returns how many mutating calls reached the store.
func (r *Repository[T]) Writes() int { return int(r.writes.Load()) }

// FailWith makes every following call return err. Pass nil to recover.
func (r *Repository[T]) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func (r *Repository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	if err := r.check(ctx); err != nil {
		return zero, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return zero, nil
	}
	return clone(row), nil
}

func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.Find(ctx, nil)
}

func (r *Repository[T]) Find(ctx context.Context, spec query.Spec) ([]T, error) {
	if err := r.check(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.rows))
	for _, row := range r.rows {
		ok, err := query.Match(spec, row)
		if err != nil {
			return nil, apperror.StorageUnavailable("find", err)
		}
		if ok {
			out = append(out, clone(row))
		}
	}
	if err := query.Sort(out, repository.New[T]().DefaultOrder()); err != nil {
		return nil, apperror.StorageUnavailable("sort", err)
	}
	return out, nil
}

func (r *Repository[T]) FirstOrDefault(ctx context.Context, spec query.Spec) (T, error) {
	var zero T
	rows, err := r.Find(ctx, spec)
	if err != nil || len(rows) == 0 {
		return zero, err
	}
	return rows[0], nil
}

func (r *Repository[T]) Add(ctx context.Context, entity T) (T, error) {
	if err := r.check(ctx); err != nil {
		return entity, err
	}
	r.writes.Add(1)
	repository.AssignIdentity(entity)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(entity, r.rows); err != nil {
		return entity, err
	}
	if _, ok := r.rows[entity.GetID()]; ok {
		return entity, apperror.Conflict(entity.TableName(), "id", entity.GetID())
	}
	r.rows[entity.GetID()] = clone(entity)
	return entity, nil
}

func (r *Repository[T]) AddRange(ctx context.Context, entities []T) error {
	if err := r.check(ctx); err != nil {
		return err
	}
	r.writes.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	// The batch is all or nothing: each row is checked against the store
	// and against the rows staged before it.
	staged := make(map[string]T, len(entities))
	for _, e := range entities {
		repository.AssignIdentity(e)
		if err := r.checkUnique(e, r.rows); err != nil {
			return err
		}
		if err := r.checkUnique(e, staged); err != nil {
			return err
		}
		_, stored := r.rows[e.GetID()]
		_, dup := staged[e.GetID()]
		if stored || dup {
			return apperror.Conflict(e.TableName(), "id", e.GetID())
		}
		staged[e.GetID()] = clone(e)
	}
	for id, e := range staged {
		r.rows[id] = e
	}
	return nil
}

func (r *Repository[T]) Update(ctx context.Context, entity T) error {
	if err := r.check(ctx); err != nil {
		return err
	}
	r.writes.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[entity.GetID()]; !ok {
		return nil
	}
	if err := r.checkUnique(entity, r.rows); err != nil {
		return err
	}
	r.rows[entity.GetID()] = clone(entity)
	return nil
}

func (r *Repository[T]) Delete(ctx context.Context, entity T) error {
	return r.DeleteByID(ctx, entity.GetID())
}

func (r *Repository[T]) DeleteByID(ctx context.Context, id string) error {
	if err := r.check(ctx); err != nil {
		return err
	}
	r.writes.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *Repository[T]) Exists(ctx context.Context, id string) (bool, error) {
	if err := r.check(ctx); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *Repository[T]) Count(ctx context.Context) (int, error) {
	return r.CountWhere(ctx, nil)
}

func (r *Repository[T]) CountWhere(ctx context.Context, spec query.Spec) (int, error) {
	rows, err := r.Find(ctx, spec)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (r *Repository[T]) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fail
}

// checkUnique compares entity with rows other than itself. Called with r.mu
// held.
func (r *Repository[T]) checkUnique(entity T, rows map[string]T) error {
	for _, column := range r.opts.unique {
		value, ok := query.Value(entity, column.name)
		if !ok {
			return apperror.StorageUnavailable("unique check", fmt.Errorf("unknown column %q", column.name))
		}
		if value == nil {
			continue
		}
		for id, row := range rows {
			if id == entity.GetID() {
				continue
			}
			same, err := query.Match(query.Where(column.name, column.op, value), row)
			if err != nil {
				return apperror.StorageUnavailable("unique check", err)
			}
			if same {
				return apperror.Conflict(entity.TableName(), column.name, fmt.Sprint(value))
			}
		}
	}
	return nil
}

func clone[T model.Entity](entity T) T {
	c := repository.New[T]()
	reflect.ValueOf(c).Elem().Set(reflect.ValueOf(entity).Elem())
	return c
}
