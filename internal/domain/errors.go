package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrForbidden         = errors.New("forbidden")
	// ErrConflict marks transient storage conflicts; the caller may retry with the same input.
	ErrConflict = errors.New("conflict")
)

var (
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
)

// ProductError names the product a reservation failed on.
type ProductError struct {
	ProductID uint
	Requested int
	Available int
	Err       error
}

func (e *ProductError) Error() string {
	if errors.Is(e.Err, ErrInsufficientStock) {
		return fmt.Sprintf("product %d: %v (requested %d, available %d)", e.ProductID, e.Err, e.Requested, e.Available)
	}
	return fmt.Sprintf("product %d: %v", e.ProductID, e.Err)
}

func (e *ProductError) Unwrap() error { return e.Err }

func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
