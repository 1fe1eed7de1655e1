package infra

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"webshop-service/internal/domain"
)

type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         AuthUser `json:"user"`
}

// AuthClient talks to the hosted auth API (/auth/v1).
type AuthClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewAuthClient(baseURL, apiKey string, timeout time.Duration) *AuthClient {
	return &AuthClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// authError is the body of a rejected auth request.
type authError struct {
	Code             string `json:"error_code"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e authError) message() string {
	for _, s := range []string{e.Msg, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// signUpError maps a rejected sign-up to the domain error it stands for.
func signUpError(status int, e authError) error {
	msg := strings.ToLower(e.message())
	switch {
	case e.Code == "user_already_exists" || e.Code == "email_exists" ||
		strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists"):
		return domain.ErrAccountExists
	case e.Code == "weak_password" || strings.Contains(msg, "password"):
		return &domain.ValidationError{Field: "password", Message: "Password must be at least 6 characters long"}
	case e.Code == "email_address_invalid" || e.Code == "validation_failed" || strings.Contains(msg, "email"):
		return &domain.ValidationError{Field: "email", Message: "Invalid email address"}
	default:
		return fmt.Errorf("auth signup returned status %d: %s", status, e.message())
	}
}

// SignUp creates the account. The session carries an access token only when
// the provider signs new users in right away.
func (c *AuthClient) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*AuthSession, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}
	// The answer is either the user itself or a session wrapping it,
	// depending on whether e-mail confirmation is enabled.
	var out struct {
		AuthUser
		AccessToken  string    `json:"access_token"`
		TokenType    string    `json:"token_type"`
		ExpiresIn    int       `json:"expires_in"`
		RefreshToken string    `json:"refresh_token"`
		User         *AuthUser `json:"user"`
	}
	var rejected authError
	status, err := c.call(ctx, "/auth/v1/signup", "", payload, &out, &rejected)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
			return nil, signUpError(status, rejected)
		}
		return nil, fmt.Errorf("auth signup returned status %d", status)
	}

	s := &AuthSession{
		AccessToken:  out.AccessToken,
		TokenType:    out.TokenType,
		ExpiresIn:    out.ExpiresIn,
		RefreshToken: out.RefreshToken,
		User:         out.AuthUser,
	}
	if out.User != nil && out.User.ID != "" {
		s.User = *out.User
	}
	return s, nil
}

func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	var out AuthSession
	status, err := c.post(ctx, "/auth/v1/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return &out, nil
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, domain.ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("auth token returned status %d", status)
	}
}

func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	status, err := c.post(ctx, "/auth/v1/logout", accessToken, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Errorf("auth logout returned status %d", status)
	}
	return nil
}

// post returns the status code; out is decoded only for 2xx answers.
func (c *AuthClient) post(ctx context.Context, path, bearer string, body any, out any) (int, error) {
	return c.call(ctx, path, bearer, body, out, nil)
}

// call is post that also decodes error bodies into failed, when given.
// An undecodable error body leaves failed empty.
func (c *AuthClient) call(ctx context.Context, path, bearer string, body any, out any, failed any) (int, error) {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return 0, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if out != nil && ok {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode auth response: %w", err)
		}
	}
	if failed != nil && !ok {
		_ = json.NewDecoder(resp.Body).Decode(failed)
	}
	return resp.StatusCode, nil
}
