package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestEntityErrorsWrapGeneric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		generic error
	}{
		{"word not found", ErrWordNotFound, ErrNotFound},
		{"list not found", ErrListNotFound, ErrNotFound},
		{"list exists", ErrListExists, ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tt.err, tt.generic) {
				t.Errorf("expected %v to wrap %v", tt.err, tt.generic)
			}
		})
	}

	if !IsNotFoundError(fmt.Errorf("lookup: %w", ErrListNotFound)) {
		t.Error("expected wrapped ErrListNotFound to be a not-found error")
	}
	if IsNotFoundError(ErrListExists) {
		t.Error("ErrListExists must not be a not-found error")
	}
	if !IsDuplicateError(ErrListExists) {
		t.Error("expected ErrListExists to be a duplicate error")
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := NewStoreError("schedule", "upsert", "failed to write", fmt.Errorf("%w: %v", ErrStorage, cause))

	want := "schedule upsert: failed to write: database failure: disk full"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrStorage) {
		t.Error("expected StoreError to unwrap to ErrStorage")
	}

	var se *StoreError
	if !errors.As(fmt.Errorf("outer: %w", err), &se) {
		t.Fatal("expected errors.As to find StoreError")
	}
	if se.Entity != "schedule" {
		t.Errorf("Entity = %q, want schedule", se.Entity)
	}

	bare := NewStoreError("word_list", "get", "missing", nil)
	if bare.Error() != "word_list get: missing" {
		t.Errorf("unexpected message %q", bare.Error())
	}
}
