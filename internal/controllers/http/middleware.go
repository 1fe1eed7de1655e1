package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	sessionKey     = "session"
	accessTokenKey = "access_token"
)

// Session reads an optional bearer token. Requests without one run as a
// guest; a token that does not verify is rejected.
func Session(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(sessionKey, domain.Guest())
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid authorization header."})
			return
		}
		s, err := parseSession(raw, secret)
		if err != nil {
			zap.L().Debug("rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Your session has expired. Please sign in again."})
			return
		}

		c.Set(sessionKey, s)
		c.Set(accessTokenKey, raw)
		c.Request = c.Request.WithContext(infra.WithAccessToken(c.Request.Context(), raw))
		c.Next()
	}
}

func parseSession(raw string, secret []byte) (domain.Session, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return domain.Guest(), err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return domain.Guest(), err
	}
	if sub == "" {
		return domain.Guest(), errors.New("token has no subject")
	}
	email, _ := claims["email"].(string)
	return domain.Session{UserID: sub, Email: email}, nil
}

func sessionFrom(c *gin.Context) domain.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(domain.Session); ok {
			return s
		}
	}
	return domain.Guest()
}

// RequestLogger logs one line per request through the global zap logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if s := sessionFrom(c); !s.IsGuest() {
			fields = append(fields, zap.String("user_id", s.UserID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			zap.L().Error("http request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			zap.L().Warn("http request", fields...)
		default:
			zap.L().Info("http request", fields...)
		}
	}
}

func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// NewSessionToken signs a session token. Tokens normally come from the auth
// provider; this is used by tests and local tooling.
func NewSessionToken(secret []byte, s domain.Session, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   s.UserID,
		"email": s.Email,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}
