package http

import (
	"errors"
	"net/http"
	"testing"
	"time"
	"webshop-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSession(t *testing.T) {
	token, err := NewSessionToken(testSecret, domain.Session{UserID: "user-1", Email: "ana@example.com"}, time.Hour)
	require.NoError(t, err)

	s, err := parseSession(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, domain.Session{UserID: "user-1", Email: "ana@example.com"}, s)

	noSubject, err := NewSessionToken(testSecret, domain.Session{}, time.Hour)
	require.NoError(t, err)
	_, err = parseSession(noSubject, testSecret)
	assert.Error(t, err)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{&domain.ValidationError{Field: "phone"}, http.StatusBadRequest},
		{domain.ErrAuthRequired, http.StatusUnauthorized},
		{domain.ErrEmptyCart, http.StatusUnprocessableEntity},
		{domain.ErrProductNotFound, http.StatusNotFound},
		{domain.ErrAccountExists, http.StatusConflict},
		{domain.ErrFetchFailed, http.StatusBadGateway},
		{&domain.PartialOrderError{OrderID: "o1", Err: errors.New("x")}, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusFor(tt.err), "%v", tt.err)
	}
}
