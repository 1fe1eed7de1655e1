package infra

import (
	"context"
	"net/url"
)

type StoreClient interface {
	Select(ctx context.Context, table string, query url.Values, out any) error
	Insert(ctx context.Context, table string, rows any, out any) error
	Upsert(ctx context.Context, table string, row any, onConflict string, out any) error
	Update(ctx context.Context, table string, filter url.Values, patch any) error
	Delete(ctx context.Context, table string, filter url.Values) error
}

type AuthProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*AuthSession, error)
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

var (
	_ StoreClient  = (*RestClient)(nil)
	_ AuthProvider = (*AuthClient)(nil)
)
