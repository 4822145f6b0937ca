package service

import (
	"errors"
	"fmt"
)

// Taxonomy sentinels. Handlers map these to HTTP codes with errors.Is.
var (
	ErrValidation  = errors.New("validation")  // 400
	ErrNotFound    = errors.New("not found")   // 404
	ErrConflict    = errors.New("conflict")    // 409
	ErrUnavailable = errors.New("unavailable") // 422
)

// Operation-specific kinds, each wrapping its taxonomy sentinel so callers
// can match either level.
var (
	ErrProductUnavailable = fmt.Errorf("product unavailable: %w", ErrUnavailable)
	ErrInvalidQuantity    = fmt.Errorf("invalid quantity: %w", ErrValidation)
	ErrLineNotFound       = fmt.Errorf("cart line not found: %w", ErrNotFound)
	ErrCartNotFound       = fmt.Errorf("cart not found: %w", ErrNotFound)
	ErrEmptyCart          = fmt.Errorf("cart is empty: %w", ErrValidation)
	ErrCurrencyMismatch   = fmt.Errorf("currency mismatch: %w", ErrValidation)
	ErrOrderNotFound      = fmt.Errorf("order not found: %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user not found: %w", ErrNotFound)
	ErrInvalidPayload     = fmt.Errorf("invalid payload: %w", ErrValidation)
	ErrAlreadyPaid        = fmt.Errorf("order already paid: %w", ErrConflict)
	ErrInvalidTransition  = fmt.Errorf("invalid status transition: %w", ErrConflict)
	ErrCodeNotFound       = fmt.Errorf("code not found: %w", ErrNotFound)
	ErrCodeExpired        = fmt.Errorf("code expired: %w", ErrValidation)
	ErrCodeAlreadyUsed    = fmt.Errorf("code already used: %w", ErrConflict)
)
