package validate

import (
	"errors"
	"testing"

	"github.com/fekuna/omnipos-kiosk-service/internal/apperror"
)

type sample struct {
	Name  string `db:"name" validate:"required,max=5"`
	Email string `db:"email" validate:"required,email"`
	Qty   int    `db:"qty" validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{"valid", sample{Name: "ok", Email: "a@b.com"}, ""},
		{"missing name", sample{Email: "a@b.com"}, "name"},
		{"long name", sample{Name: "toolong", Email: "a@b.com"}, "name"},
		{"bad email", sample{Name: "ok", Email: "nope"}, "email"},
		{"negative qty", sample{Name: "ok", Email: "a@b.com", Qty: -1}, "qty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var appErr *apperror.Error
			if !errors.As(err, &appErr) {
				t.Fatalf("expected *apperror.Error, got %v", err)
			}
			if appErr.Kind != apperror.KindValidation {
				t.Errorf("kind = %v", appErr.Kind)
			}
			if appErr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", appErr.Field, tt.wantField)
			}
		})
	}
}
