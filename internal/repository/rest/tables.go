// Package rest stores shop data in the hosted data store through its table
// API. Every owned table is filtered by user_id on each call.
package rest

import (
	"net/url"
	"time"
	"webshop-service/internal/infra"

	"github.com/shopspring/decimal"
)

const (
	tableProducts   = "products"
	tableCartItems  = "cart_items"
	tableOrders     = "orders"
	tableOrderItems = "order_items"
	tableProfiles   = "profiles"
)

const (
	cartSelect  = "id,user_id,product_id,quantity,created_at,product:products(id,name,price,image_url)"
	orderSelect = "*,order_items(id,order_id,product_id,quantity,price,product:products(name,image_url))"
)

func filter(kv ...string) url.Values {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], infra.Eq(kv[i+1]))
	}
	return q
}

type cartItemRow struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type orderRow struct {
	UserID      string          `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	ZipCode     string          `json:"zip_code"`
	Status      string          `json:"status"`
}

type orderItemRow struct {
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type profileRow struct {
	ID          string    `json:"id,omitempty"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	Bio         string    `json:"bio"`
	Phone       string    `json:"phone"`
	DateOfBirth *string   `json:"date_of_birth"`
	AvatarURL   string    `json:"avatar_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}
