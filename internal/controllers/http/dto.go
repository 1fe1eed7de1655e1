package http

import (
	"time"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra"
)

type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CartLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type CartResponse struct {
	Items     []CartLineResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Total     string             `json:"total"`
}

func NewCartResponse(c domain.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(c.Items))
	for _, it := range c.Items {
		line := CartLineResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal().StringFixed(2),
		}
		if it.Product != nil {
			line.Name = it.Product.Name
			line.ImageURL = it.Product.ImageURL
			line.UnitPrice = it.Product.Price.StringFixed(2)
		}
		lines = append(lines, line)
	}
	return CartResponse{
		Items:     lines,
		ItemCount: c.ItemCount(),
		Total:     c.TotalPrice().StringFixed(2),
	}
}

type OrderItemResponse struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	ImageURL  string `json:"imageUrl"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"lineTotal"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"orderNumber"`
	Status      string              `json:"status"`
	StatusLabel string              `json:"statusLabel"`
	Total       string              `json:"total"`
	FirstName   string              `json:"firstName"`
	LastName    string              `json:"lastName"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone"`
	Address     string              `json:"address"`
	City        string              `json:"city"`
	ZipCode     string              `json:"zipCode"`
	CreatedAt   time.Time           `json:"createdAt"`
	Items       []OrderItemResponse `json:"items"`
}

func NewOrderResponse(o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		item := OrderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price.StringFixed(2),
			LineTotal: it.LineTotal().StringFixed(2),
		}
		if it.Product != nil {
			item.Name = it.Product.Name
			item.ImageURL = it.Product.ImageURL
		}
		items = append(items, item)
	}
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		StatusLabel: o.Status.Label(),
		Total:       o.TotalAmount.StringFixed(2),
		FirstName:   o.FirstName,
		LastName:    o.LastName,
		Email:       o.Email,
		Phone:       o.Phone,
		Address:     o.Address,
		City:        o.City,
		ZipCode:     o.ZipCode,
		CreatedAt:   o.CreatedAt,
		Items:       items,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
}

func NewLoginResponse(s *infra.AuthSession) LoginResponse {
	return LoginResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		ExpiresIn:    s.ExpiresIn,
		UserID:       s.User.ID,
		Email:        s.User.Email,
	}
}

type SignUpResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type ErrorResponse struct {
	Error       string `json:"error"`
	Field       string `json:"field,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
}
