package errors

import (
	"errors"
	"fmt"
	"strings"
)

var NotFound = errors.New("not found")

// StoreError wraps any failure of the underlying document store.
type StoreError struct {
	Op  string
	Id  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Id == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v, id: %s", e.Op, e.Err, e.Id)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func Store(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Id: id, Err: err}
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
