package repository

import (
	"errors"
	"testing"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
)

func TestUniqueViolation(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	tests := []struct {
		name      string
		detail    string
		wantField string
		wantValue string
	}{
		{"email", "Key (email)=(jane@x.com) already exists.", "email", "jane@x.com"},
		{"sku", "Key (sku)=(WDG-001) already exists.", "sku", "WDG-001"},
		{"lower email", "Key (lower(email::text))=(jane@x.com) already exists.", "email", "jane@x.com"},
		{"lower email with cast parens", "Key (lower((email)::text))=(jane@x.com) already exists.", "email", "jane@x.com"},
		{"no detail", "", "key", ""},
		{"unexpected detail", "something else", "key", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := UniqueViolation("customers", tt.detail, cause)
			if !errors.Is(err, apperror.ErrConflict) {
				t.Fatalf("err = %v, want conflict", err)
			}
			if err.Field != tt.wantField || err.Value != tt.wantValue {
				t.Errorf("field, value = %q, %q; want %q, %q", err.Field, err.Value, tt.wantField, tt.wantValue)
			}
			if !errors.Is(err, cause) {
				t.Error("cause not kept in the chain")
			}
		})
	}
}
