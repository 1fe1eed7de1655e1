package repository

import (
	"context"
	"webshop-service/internal/domain"
)

// Find* methods return (nil, nil) when no row matches.

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ListActive(ctx context.Context, category string) ([]domain.Product, error)
}

type CartRepository interface {
	// ListByUser returns the user's lines joined with their current product.
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error)
	Insert(ctx context.Context, item *domain.CartItem) error
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error
	Delete(ctx context.Context, userID, itemID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// OrderRepository writes the order header and its items in two separate
// calls. Nothing ties them together in one transaction.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateItems(ctx context.Context, items []domain.OrderItem) error
	// ListByUser returns orders newest first with items and item products.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type ProfileRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.Profile, error)
	Upsert(ctx context.Context, profile *domain.Profile) error
}
