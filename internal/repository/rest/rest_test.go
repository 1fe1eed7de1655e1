package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, h http.HandlerFunc) infra.StoreClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return infra.NewRestClient(srv.URL, "anon-key", time.Second, 0)
}

func TestCartRepository_ListByUserJoinsProduct(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/rest/v1/cart_items", r.URL.Path)
		assert.Equal(t, "eq.user-1", q.Get("user_id"))
		assert.Equal(t, cartSelect, q.Get("select"))
		assert.Equal(t, "created_at.asc", q.Get("order"))
		_, _ = io.WriteString(w, `[
			{"id":"i1","user_id":"user-1","product_id":"p1","quantity":2,"created_at":"2025-01-01T10:00:00Z",
			 "product":{"id":"p1","name":"Hoodie","price":49.9,"image_url":"h.jpg"}}
		]`)
	})

	items, err := NewCartRepository(store).ListByUser(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Hoodie", items[0].Product.Name)
	assert.True(t, decimal.RequireFromString("99.8").Equal(items[0].LineTotal()))
}

func TestCartRepository_FindByUserAndProduct(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.user-1", q.Get("user_id"))
		if q.Get("product_id") == "eq.p1" {
			_, _ = io.WriteString(w, `[{"id":"i1","user_id":"user-1","product_id":"p1","quantity":3}]`)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	})
	repo := NewCartRepository(store)

	it, err := repo.FindByUserAndProduct(context.Background(), "user-1", "p1")
	require.NoError(t, err)
	require.NotNil(t, it)
	assert.Equal(t, 3, it.Quantity)

	it, err = repo.FindByUserAndProduct(context.Background(), "user-1", "p2")
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestCartRepository_Insert(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"user_id":"user-1","product_id":"p1","quantity":1}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"i9","user_id":"user-1","product_id":"p1","quantity":1,"created_at":"2025-01-01T10:00:00Z"}]`)
	})

	item := &domain.CartItem{UserID: "user-1", ProductID: "p1", Quantity: 1}
	require.NoError(t, NewCartRepository(store).Insert(context.Background(), item))
	assert.Equal(t, "i9", item.ID)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestCartRepository_WritesAreScopedByUser(t *testing.T) {
	var seen []string
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Query().Encode())
		w.WriteHeader(http.StatusNoContent)
	})
	repo := NewCartRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.UpdateQuantity(ctx, "user-1", "i1", 4))
	require.NoError(t, repo.Delete(ctx, "user-1", "i1"))
	require.NoError(t, repo.DeleteByUser(ctx, "user-1"))

	assert.Equal(t, []string{
		"PATCH id=eq.i1&user_id=eq.user-1",
		"DELETE id=eq.i1&user_id=eq.user-1",
		"DELETE user_id=eq.user-1",
	}, seen)
}

func TestOrderRepository_Create(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/orders", r.URL.Path)
		var got map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "pending", got["status"])
		assert.Equal(t, "10000", got["zip_code"])
		assert.NotContains(t, got, "id")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"o1","order_number":"ORD-20250101-0001","status":"pending","created_at":"2025-01-01T10:00:00Z"}]`)
	})

	order := &domain.Order{UserID: "user-1", TotalAmount: decimal.RequireFromString("42.5"), ZipCode: "10000"}
	require.NoError(t, NewOrderRepository(store).Create(context.Background(), order))

	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "ORD-20250101-0001", order.OrderNumber)
	assert.Equal(t, domain.StatusPending, order.Status)
}

func TestOrderRepository_CreateItems(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `[
			{"order_id":"o1","product_id":"p1","quantity":2,"price":"20"},
			{"order_id":"o1","product_id":"p2","quantity":1,"price":"2.5"}
		]`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"it1"},{"id":"it2"}]`)
	})

	items := []domain.OrderItem{
		{OrderID: "o1", ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("20")},
		{OrderID: "o1", ProductID: "p2", Quantity: 1, Price: decimal.RequireFromString("2.5")},
	}
	require.NoError(t, NewOrderRepository(store).CreateItems(context.Background(), items))
	assert.Equal(t, "it1", items[0].ID)
	assert.Equal(t, "it2", items[1].ID)
}

func TestOrderRepository_CreateItemsFailure(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message":"new row violates row-level security policy"}`)
	})

	err := NewOrderRepository(store).CreateItems(context.Background(), []domain.OrderItem{{OrderID: "o1", ProductID: "p1", Quantity: 1}})

	var se *infra.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.Status)
}

func TestOrderRepository_ListByUser(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "created_at.desc", q.Get("order"))
		assert.Equal(t, orderSelect, q.Get("select"))
		_, _ = io.WriteString(w, `[
			{"id":"o2","order_number":"N2","total_amount":5,"created_at":"2025-01-02T00:00:00Z","order_items":[]},
			{"id":"o1","order_number":"N1","total_amount":42.5,"created_at":"2025-01-01T00:00:00Z",
			 "order_items":[{"id":"it1","order_id":"o1","product_id":"p1","quantity":2,"price":20,"product":{"name":"T-shirt","image_url":"t.jpg"}}]}
		]`)
	})

	orders, err := NewOrderRepository(store).ListByUser(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	require.Len(t, orders[1].Items, 1)
	assert.Equal(t, "T-shirt", orders[1].Items[0].Product.Name)
}

func TestProductRepository(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.true", q.Get("is_active"))
		switch {
		case q.Get("id") == "eq.p1":
			_, _ = io.WriteString(w, `[{"id":"p1","name":"Hoodie","price":"49.90","category":"merch","is_active":true}]`)
		case q.Get("id") != "":
			_, _ = io.WriteString(w, `[]`)
		default:
			assert.Equal(t, "eq.merch", q.Get("category"))
			assert.Equal(t, "created_at.desc", q.Get("order"))
			_, _ = io.WriteString(w, `[{"id":"p1","name":"Hoodie","price":49.9,"category":"merch","is_active":true}]`)
		}
	})
	repo := NewProductRepository(store)
	ctx := context.Background()

	p, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "49.90", p.Price.StringFixed(2))

	p, err = repo.FindByID(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, p)

	ps, err := repo.ListActive(ctx, "merch")
	require.NoError(t, err)
	assert.Len(t, ps, 1)
}

func TestProfileRepository_Upsert(t *testing.T) {
	store := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "user_id", r.URL.Query().Get("on_conflict"))
		var got map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Nil(t, got["date_of_birth"])
		assert.Equal(t, "ana", got["username"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"pr1","user_id":"user-1","username":"ana","date_of_birth":null}]`)
	})

	p := &domain.Profile{UserID: "user-1", Username: "ana"}
	require.NoError(t, NewProfileRepository(store).Upsert(context.Background(), p))
	assert.Equal(t, "pr1", p.ID)
	assert.Equal(t, "", p.DateOfBirth)
}
