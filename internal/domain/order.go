package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var statusLabels = map[OrderStatus]string{
	StatusPending:    "Pending",
	StatusProcessing: "Processing",
	StatusShipped:    "Shipped",
	StatusDelivered:  "Delivered",
	StatusCancelled:  "Cancelled",
}

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the display text of the status. Unknown values are shown as is.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

type Order struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber string          `json:"order_number" gorm:"size:32;uniqueIndex"`
	UserID      string          `json:"user_id" gorm:"type:varchar(36);not null;index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	FirstName   string          `json:"first_name" gorm:"not null"`
	LastName    string          `json:"last_name" gorm:"not null"`
	Email       string          `json:"email" gorm:"not null"`
	Phone       string          `json:"phone" gorm:"not null"`
	Address     string          `json:"address" gorm:"not null"`
	City        string          `json:"city" gorm:"not null"`
	ZipCode     string          `json:"zip_code" gorm:"not null"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime;index"`
	Items       []OrderItem     `json:"order_items" gorm:"foreignKey:OrderID"`
}

// OrderItem captures the unit price at purchase time. It never follows later
// product price changes.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
