// Package repository declares the storage contract every backend satisfies.
//
// Backends never validate. A missing row is a zero result, not an error.
// Transport and statement failures surface as apperror.ErrStorageUnavailable,
// storage-level unique violations as apperror.ErrConflict, and a cancelled
// context as the context's own error.
package repository

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/query"
)

type Repository[T model.Entity] interface {
	// GetByID returns the zero T (nil) when no row has the id.
	GetByID(ctx context.Context, id string) (T, error)
	// GetAll returns every row ordered by T's DefaultOrder.
	GetAll(ctx context.Context) ([]T, error)
	Find(ctx context.Context, spec query.Spec) ([]T, error)
	// FirstOrDefault returns the first match in DefaultOrder or the zero T.
	FirstOrDefault(ctx context.Context, spec query.Spec) (T, error)
	// Add assigns an id and creation time when absent, then inserts.
	Add(ctx context.Context, entity T) (T, error)
	// AddRange inserts all entities or none.
	AddRange(ctx context.Context, entities []T) error
	// Update replaces the row with entity's id. It does not check existence.
	Update(ctx context.Context, entity T) error
	// Delete and DeleteByID succeed when the row is already gone.
	Delete(ctx context.Context, entity T) error
	DeleteByID(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	CountWhere(ctx context.Context, spec query.Spec) (int, error)
}

// New returns a freshly allocated T, e.g. &model.Customer{} for
// T = *model.Customer.
func New[T model.Entity]() T {
	var zero T
	return reflect.New(reflect.TypeOf(zero).Elem()).Interface().(T)
}

// IsNil reports whether entity is the zero T.
func IsNil[T model.Entity](entity T) bool {
	v := reflect.ValueOf(entity)
	return !v.IsValid() || (v.Kind() == reflect.Ptr && v.IsNil())
}

// AssignIdentity fills the id and creation time when absent.
func AssignIdentity(entity model.Entity) {
	if entity.GetID() == "" {
		entity.SetID(uuid.New().String())
	}
	if entity.GetCreatedAt().IsZero() {
		entity.SetCreatedAt(model.Now())
	}
}
