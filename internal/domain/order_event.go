package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventSignUp      EventType = "signup"
	EventLogin       EventType = "login"
	EventLogout      EventType = "logout"
	EventProfileEdit EventType = "profile_edit"
	EventAddToCart   EventType = "add_to_cart"
	EventNewOrder    EventType = "new_order"
)

// NotificationEvent is the message handed to notification sinks. Exactly one
// of the payload pointers is set, depending on Type.
type NotificationEvent struct {
	Type      EventType         `json:"type"`
	UserID    string            `json:"userId"`
	Email     string            `json:"email,omitempty"`
	Product   *ProductPayload   `json:"product,omitempty"`
	Order     *OrderPayload     `json:"order,omitempty"`
	Changes   map[string]string `json:"changes,omitempty"`
	Username  string            `json:"username,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

type ProductPayload struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type OrderPayload struct {
	OrderID     string             `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	Customer    string             `json:"customer"`
	Phone       string             `json:"phone"`
	Address     string             `json:"address"`
	City        string             `json:"city"`
	ZipCode     string             `json:"zipCode"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Items       []OrderLinePayload `json:"items"`
}

type OrderLinePayload struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

func NewAddToCartEvent(s Session, p Product, quantity int) NotificationEvent {
	return NotificationEvent{
		Type:   EventAddToCart,
		UserID: s.UserID,
		Email:  s.Email,
		Product: &ProductPayload{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  quantity,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewOrderEvent summarizes a placed order. names maps product id to the
// product name shown in the cart at checkout.
func NewOrderEvent(s Session, o Order, names map[string]string) NotificationEvent {
	lines := make([]OrderLinePayload, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, OrderLinePayload{
			Name:      names[it.ProductID],
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal(),
		})
	}
	return NotificationEvent{
		Type:   EventNewOrder,
		UserID: s.UserID,
		Email:  o.Email,
		Order: &OrderPayload{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Customer:    o.FirstName + " " + o.LastName,
			Phone:       o.Phone,
			Address:     o.Address,
			City:        o.City,
			ZipCode:     o.ZipCode,
			TotalAmount: o.TotalAmount,
			Items:       lines,
		},
		Timestamp: time.Now().UTC(),
	}
}

func NewAccountEvent(t EventType, s Session) NotificationEvent {
	return NotificationEvent{
		Type:      t,
		UserID:    s.UserID,
		Email:     s.Email,
		Timestamp: time.Now().UTC(),
	}
}
