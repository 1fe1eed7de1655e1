package infra

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestStore(t *testing.T, h http.HandlerFunc) *RestClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewRestClient(srv.URL+"/", "anon-key", time.Second, 1)
}

func TestRestClient_SelectSendsCredentials(t *testing.T) {
	c := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/products", r.URL.Path)
		assert.Equal(t, "eq.p1", r.URL.Query().Get("id"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id":"p1","name":"Hoodie"}]`)
	})

	var out []row
	ctx := WithAccessToken(context.Background(), "user-token")
	err := c.Select(ctx, "products", url.Values{"id": {Eq("p1")}}, &out)

	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "p1", Name: "Hoodie"}}, out)
}

func TestRestClient_SelectFallsBackToAPIKey(t *testing.T) {
	c := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	})

	var out []row
	require.NoError(t, c.Select(context.Background(), "products", nil, &out))
	assert.Empty(t, out)
}

func TestRestClient_SelectRetries(t *testing.T) {
	tests := []struct {
		name          string
		statuses      []int
		expectedCalls int32
		expectError   bool
	}{
		{name: "server error is retried once", statuses: []int{503, 200}, expectedCalls: 2},
		{name: "second server error gives up", statuses: []int{500, 502, 200}, expectedCalls: 2, expectError: true},
		{name: "client error is not retried", statuses: []int{400, 200}, expectedCalls: 1, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				status := tt.statuses[n-1]
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = io.WriteString(w, `[{"id":"p1"}]`)
					return
				}
				_, _ = io.WriteString(w, `{"code":"PGRST000","message":"nope"}`)
			})

			var out []row
			err := c.Select(context.Background(), "products", nil, &out)

			assert.Equal(t, tt.expectedCalls, calls.Load())
			if tt.expectError {
				var se *StoreError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, "nope", se.Message)
				assert.Equal(t, "PGRST000", se.Code)
			} else {
				require.NoError(t, err)
				assert.Len(t, out, 1)
			}
		})
	}
}

func TestRestClient_WritesAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := c.Insert(context.Background(), "orders", map[string]string{"user_id": "u1"}, nil)

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Status)
	assert.True(t, se.Temporary())
	assert.Equal(t, int32(1), calls.Load())
}

func TestRestClient_InsertReturnsRepresentation(t *testing.T) {
	c := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Hoodie"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"new","name":"Hoodie"}]`)
	})

	var out []row
	require.NoError(t, c.Insert(context.Background(), "products", map[string]string{"name": "Hoodie"}, &out))
	assert.Equal(t, "new", out[0].ID)
}

func TestRestClient_Upsert(t *testing.T) {
	c := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user_id", r.URL.Query().Get("on_conflict"))
		assert.Equal(t, "resolution=merge-duplicates", r.Header.Get("Prefer"))
		w.WriteHeader(http.StatusCreated)
	})

	require.NoError(t, c.Upsert(context.Background(), "profiles", map[string]string{"user_id": "u1"}, "user_id", nil))
}

func TestRestClient_UpdateAndDelete(t *testing.T) {
	var methods []string
	c := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Equal(t, "eq.i1", r.URL.Query().Get("id"))
		assert.Equal(t, "eq.u1", r.URL.Query().Get("user_id"))
		w.WriteHeader(http.StatusNoContent)
	})
	filter := url.Values{"id": {Eq("i1")}, "user_id": {Eq("u1")}}

	require.NoError(t, c.Update(context.Background(), "cart_items", filter, map[string]int{"quantity": 3}))
	require.NoError(t, c.Delete(context.Background(), "cart_items", filter))
	assert.Equal(t, []string{http.MethodPatch, http.MethodDelete}, methods)
}
