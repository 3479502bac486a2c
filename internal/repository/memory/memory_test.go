package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
	"github.com/fekuna/omnipos-kiosk-service/internal/model"
	"github.com/fekuna/omnipos-kiosk-service/internal/repository/repotest"
)

func TestContract(t *testing.T) {
	repotest.RunContract(t, func(t *testing.T) repotest.Repos {
		return repotest.Repos{
			Customers: New[*model.Customer](UniqueFold("email")),
			Products:  New[*model.Product](Unique("sku")),
		}
	})
}

func TestWritesCountsMutations(t *testing.T) {
	ctx := context.Background()
	repo := New[*model.Customer]()

	c, err := repo.Add(ctx, repotest.NewCustomer("A", "B", "a@b.com"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := repo.GetByID(ctx, c.ID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := repo.GetAll(ctx); err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if repo.Writes() != 1 {
		t.Errorf("Writes after one Add and two reads = %d, want 1", repo.Writes())
	}
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.DeleteByID(ctx, c.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if repo.Writes() != 3 {
		t.Errorf("Writes = %d, want 3", repo.Writes())
	}
}

func TestStoredRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := New[*model.Customer]()
	c, _ := repo.Add(ctx, repotest.NewCustomer("A", "B", "a@b.com"))

	c.FirstName = "Changed"
	got, _ := repo.GetByID(ctx, c.ID)
	if got.FirstName != "A" {
		t.Errorf("stored row changed through caller's pointer: %q", got.FirstName)
	}
}

func TestFailWith(t *testing.T) {
	ctx := context.Background()
	repo := New[*model.Customer]()
	repo.FailWith(apperror.StorageUnavailable("ping", errors.New("connection refused")))

	if _, err := repo.GetAll(ctx); !errors.Is(err, apperror.ErrStorageUnavailable) {
		t.Fatalf("GetAll err = %v", err)
	}
	repo.FailWith(nil)
	if _, err := repo.GetAll(ctx); err != nil {
		t.Fatalf("GetAll after recovery: %v", err)
	}
}

func TestAddRangeChecksRowsWithinTheBatch(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		option Option
		emails []string
	}{
		{"exact", Unique("email"), []string{"dup@x.com", "dup@x.com"}},
		{"folded", UniqueFold("email"), []string{"dup@x.com", "DUP@x.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := New[*model.Customer](tt.option)
			batch := make([]*model.Customer, len(tt.emails))
			for i, email := range tt.emails {
				batch[i] = repotest.NewCustomer("A", "B", email)
			}
			if err := repo.AddRange(ctx, batch); !errors.Is(err, apperror.ErrConflict) {
				t.Fatalf("AddRange err = %v, want conflict", err)
			}
			if n, _ := repo.Count(ctx); n != 0 {
				t.Errorf("Count after rejected batch = %d, want 0", n)
			}
		})
	}

	t.Run("exact leaves case variants alone", func(t *testing.T) {
		repo := New[*model.Customer](Unique("email"))
		batch := []*model.Customer{
			repotest.NewCustomer("A", "B", "dup@x.com"),
			repotest.NewCustomer("A", "B", "DUP@x.com"),
		}
		if err := repo.AddRange(ctx, batch); err != nil {
			t.Fatalf("AddRange: %v", err)
		}
	})
}
