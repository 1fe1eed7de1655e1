package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired        = errors.New("authentication required")
	ErrValidationFailed    = errors.New("validation failed")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrCartWriteFailed     = errors.New("cart write failed")
	ErrOrderCreationFailed = errors.New("order creation failed")
	ErrFetchFailed         = errors.New("fetch failed")
	ErrNotificationFailed  = errors.New("notification failed")
	ErrProductNotFound     = errors.New("product not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountExists       = errors.New("account already exists")
	ErrProfileWriteFailed  = errors.New("profile write failed")
)

// ValidationError names the input field that failed a rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// PartialOrderError reports an order header that was stored while its items
// were not. The order is left in place.
type PartialOrderError struct {
	OrderID     string
	OrderNumber string
	Err         error
}

func (e *PartialOrderError) Error() string {
	return fmt.Sprintf("order %s created without items: %v", e.OrderID, e.Err)
}

func (e *PartialOrderError) Unwrap() []error {
	return []error{ErrOrderCreationFailed, e.Err}
}

// UserMessage maps an error to a short message suitable for end users.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, ErrAuthRequired):
		return "Please sign in to continue."
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, ErrProductNotFound):
		return "This product is no longer available."
	case errors.Is(err, ErrCartWriteFailed):
		return "We could not update your cart. Please try again."
	case errors.Is(err, ErrOrderCreationFailed):
		return "Something went wrong while processing your order."
	case errors.Is(err, ErrFetchFailed):
		return "We could not load your data right now."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, ErrProfileWriteFailed):
		return "We could not save your profile. Please try again."
	case errors.Is(err, ErrAccountExists):
		return "An account with this email already exists."
	default:
		return "Something went wrong. Please try again."
	}
}
