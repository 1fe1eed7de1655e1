package services

import (
	"context"
	"fmt"
	"sync"
	"webshop-service/internal/domain"
	"webshop-service/internal/notify"
	"webshop-service/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartManager keeps the in-memory view of one user's cart in step with the
// store. Every mutation is followed by a full reload, so the view converges
// to the store even when writes race.
type CartManager struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	emitter  notify.Emitter

	mu   sync.RWMutex
	cart domain.Cart
}

func NewCartManager(carts repository.CartRepository, products repository.ProductRepository, emitter notify.Emitter) *CartManager {
	if emitter == nil {
		emitter = notify.Discard{}
	}
	return &CartManager{
		carts:    carts,
		products: products,
		emitter:  emitter,
		cart:     domain.Cart{Items: []domain.CartItem{}},
	}
}

// Load replaces the snapshot with the user's stored cart, priced with the
// products' current prices. Guests get an empty cart.
func (m *CartManager) Load(ctx context.Context, s domain.Session) (domain.Cart, error) {
	if s.IsGuest() {
		m.set(domain.Cart{Items: []domain.CartItem{}})
		return m.Snapshot(), nil
	}

	items, err := m.carts.ListByUser(ctx, s.UserID)
	if err != nil {
		zap.L().Warn("load cart failed", zap.String("user_id", s.UserID), zap.Error(err))
		return m.Snapshot(), fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	m.set(domain.Cart{UserID: s.UserID, Items: items})
	return m.Snapshot(), nil
}

// AddItem adds quantity units of a product, merging into the existing line
// for that product when there is one.
func (m *CartManager) AddItem(ctx context.Context, s domain.Session, productID string, quantity int) (domain.Cart, error) {
	if s.IsGuest() {
		return m.Snapshot(), domain.ErrAuthRequired
	}
	if quantity < 1 {
		return m.Snapshot(), &domain.ValidationError{Field: "quantity", Message: "Quantity must be at least 1"}
	}

	product, err := m.products.FindByID(ctx, productID)
	if err != nil {
		return m.Snapshot(), fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if product == nil {
		return m.Snapshot(), domain.ErrProductNotFound
	}

	existing, err := m.carts.FindByUserAndProduct(ctx, s.UserID, productID)
	if err != nil {
		return m.Snapshot(), m.writeFailed("add", s, err)
	}
	if existing != nil {
		err = m.carts.UpdateQuantity(ctx, s.UserID, existing.ID, existing.Quantity+quantity)
	} else {
		err = m.carts.Insert(ctx, &domain.CartItem{
			UserID:    s.UserID,
			ProductID: productID,
			Quantity:  quantity,
		})
	}
	if err != nil {
		return m.Snapshot(), m.writeFailed("add", s, err)
	}

	m.emitter.Emit(domain.NewAddToCartEvent(s, *product, quantity))
	return m.resync(ctx, s), nil
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (m *CartManager) UpdateQuantity(ctx context.Context, s domain.Session, itemID string, quantity int) (domain.Cart, error) {
	if s.IsGuest() {
		return m.Snapshot(), domain.ErrAuthRequired
	}
	if quantity <= 0 {
		return m.RemoveItem(ctx, s, itemID)
	}

	if err := m.carts.UpdateQuantity(ctx, s.UserID, itemID, quantity); err != nil {
		return m.Snapshot(), m.writeFailed("update", s, err)
	}
	return m.resync(ctx, s), nil
}

func (m *CartManager) RemoveItem(ctx context.Context, s domain.Session, itemID string) (domain.Cart, error) {
	if s.IsGuest() {
		return m.Snapshot(), domain.ErrAuthRequired
	}

	if err := m.carts.Delete(ctx, s.UserID, itemID); err != nil {
		return m.Snapshot(), m.writeFailed("remove", s, err)
	}
	return m.resync(ctx, s), nil
}

// Clear deletes all of the user's lines and empties the snapshot without
// reloading it.
func (m *CartManager) Clear(ctx context.Context, s domain.Session) error {
	if s.IsGuest() {
		return domain.ErrAuthRequired
	}

	if err := m.carts.DeleteByUser(ctx, s.UserID); err != nil {
		return m.writeFailed("clear", s, err)
	}
	m.set(domain.Cart{UserID: s.UserID, Items: []domain.CartItem{}})
	return nil
}

// Snapshot returns a copy of the current view.
func (m *CartManager) Snapshot() domain.Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]domain.CartItem, len(m.cart.Items))
	copy(items, m.cart.Items)
	return domain.Cart{UserID: m.cart.UserID, Items: items}
}

func (m *CartManager) ItemCount() int {
	return m.Snapshot().ItemCount()
}

// TotalPrice is the unrounded live total of the snapshot.
func (m *CartManager) TotalPrice() decimal.Decimal {
	return m.Snapshot().TotalPrice()
}

func (m *CartManager) set(c domain.Cart) {
	m.mu.Lock()
	m.cart = c
	m.mu.Unlock()
}

// resync reloads after a successful write. A failed reload keeps the
// previous view; the write itself already succeeded.
func (m *CartManager) resync(ctx context.Context, s domain.Session) domain.Cart {
	cart, err := m.Load(ctx, s)
	if err != nil {
		zap.L().Warn("cart resync failed", zap.String("user_id", s.UserID), zap.Error(err))
	}
	return cart
}

func (m *CartManager) writeFailed(op string, s domain.Session, err error) error {
	zap.L().Error("cart write failed", zap.String("op", op), zap.String("user_id", s.UserID), zap.Error(err))
	return fmt.Errorf("%w: %w", domain.ErrCartWriteFailed, err)
}
