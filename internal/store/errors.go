package store

import (
	"errors"
	"fmt"
)

// Generic outcomes shared by the postgres and sqlite backends. Callers test
// them with errors.Is; the entity-specific errors below wrap them.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrInvalidEntity     = errors.New("rejected by schema constraint")
	ErrStorage           = errors.New("database failure")
	ErrTransactionFailed = errors.New("transaction not committed")
)

var (
	ErrWordNotFound = fmt.Errorf("word %w", ErrNotFound)
	ErrListNotFound = fmt.Errorf("word list %w", ErrNotFound)
	ErrListExists   = fmt.Errorf("word list %w", ErrDuplicate)
)

func IsNotFoundError(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsDuplicateError(err error) bool { return errors.Is(err, ErrDuplicate) }

// StoreError records which entity and operation a backend failure belongs
// to. Err is normally one of the generic errors above, wrapped with the
// driver detail.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Entity, e.Operation, e.Message)
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }
