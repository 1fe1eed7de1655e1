package http

import (
	"errors"
	"net/http"
	"webshop-service/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the user-facing message for err. Causes are logged,
// never returned.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: domain.UserMessage(err)}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	var partial *domain.PartialOrderError
	if errors.As(err, &partial) {
		resp.OrderNumber = partial.OrderNumber
	}

	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, resp)
}
