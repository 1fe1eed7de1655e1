package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialOrderError(t *testing.T) {
	cause := errors.New("insert order_items: timeout")
	err := fmt.Errorf("checkout: %w", &PartialOrderError{OrderID: "o1", OrderNumber: "SW-1", Err: cause})

	assert.ErrorIs(t, err, ErrOrderCreationFailed)
	assert.ErrorIs(t, err, cause)

	var partial *PartialOrderError
	assert.ErrorAs(t, err, &partial)
	assert.Equal(t, "SW-1", partial.OrderNumber)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, ""},
		{&ValidationError{Field: "zipCode", Message: "Zip code must be at least 4 characters"}, "Zip code must be at least 4 characters"},
		{fmt.Errorf("%w: boom", ErrCartWriteFailed), "We could not update your cart. Please try again."},
		{&PartialOrderError{Err: errors.New("x")}, "Something went wrong while processing your order."},
		{ErrEmptyCart, "Your cart is empty."},
		{errors.New("raw driver error"), "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, UserMessage(tt.err))
	}
}
