package articles

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested article or user does not exist.
	ErrNotFound = errors.New("articles: not found")

	// ErrForbidden is returned when a caller mutates an article it did not author.
	ErrForbidden = errors.New("articles: caller is not the author")

	// ErrInvalidInput wraps validation failures of pages, filters and inputs.
	ErrInvalidInput = errors.New("articles: invalid input")
)

// StoreError reports a failure talking to the relational store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "articles: store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err unless it already carries a domain meaning.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func invalidInput(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
