package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's cart. At most one row exists per
// (UserID, ProductID).
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// LineTotal is the live price of the line. Lines whose product could not be
// joined count as zero.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is a point-in-time view of a user's cart items.
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the sum of quantities over all lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice sums price × quantity over all lines without rounding.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Find returns the line for productID, if present.
func (c Cart) Find(productID string) (CartItem, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return CartItem{}, false
}
