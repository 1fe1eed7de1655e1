package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
	"webshop-service/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-memory stand-in for the shop tables. Cart reads join
// the current product row, like the real stores do.
type MemoryStore struct {
	mu       sync.Mutex
	products map[string]domain.Product
	cart     map[string]domain.CartItem
	orders   map[string]domain.Order
	items    []domain.OrderItem
	seq      int
	Writes   int
}

func NewMemoryStore(products ...domain.Product) *MemoryStore {
	s := &MemoryStore{
		products: map[string]domain.Product{},
		cart:     map[string]domain.CartItem{},
		orders:   map[string]domain.Order{},
	}
	for _, p := range products {
		p.IsActive = true
		s.products[p.ID] = p
	}
	return s
}

// SetPrice changes a product price in place.
func (s *MemoryStore) SetPrice(productID string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[productID]
	p.Price = price
	s.products[productID] = p
}

func (s *MemoryStore) CartRows(userID string) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartRows(userID)
}

func (s *MemoryStore) OrderItems(orderID string) []domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.OrderItem
	for _, it := range s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}

func (s *MemoryStore) cartRows(userID string) []domain.CartItem {
	out := []domain.CartItem{}
	for _, it := range s.cart {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *MemoryStore) next() time.Time {
	s.seq++
	return time.Date(2025, 1, 1, 0, 0, s.seq, 0, time.UTC)
}

// Products

func (s *MemoryStore) FindByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || !p.IsActive {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryStore) ListActive(_ context.Context, category string) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Product{}
	for _, p := range s.products {
		if p.IsActive && (category == "" || p.Category == category) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MemoryCart exposes the cart table of a MemoryStore.
type MemoryCart struct{ *MemoryStore }

func (c MemoryCart) ListByUser(_ context.Context, userID string) ([]domain.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := c.cartRows(userID)
	for i := range rows {
		if p, ok := c.products[rows[i].ProductID]; ok {
			rows[i].Product = &p
		}
	}
	return rows, nil
}

func (c MemoryCart) FindByUserAndProduct(_ context.Context, userID, productID string) (*domain.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.cart {
		if it.UserID == userID && it.ProductID == productID {
			return &it, nil
		}
	}
	return nil, nil
}

func (c MemoryCart) Insert(_ context.Context, item *domain.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.cart {
		if it.UserID == item.UserID && it.ProductID == item.ProductID {
			return fmt.Errorf("duplicate cart line for product %s", item.ProductID)
		}
	}
	item.ID = uuid.NewString()
	item.CreatedAt = c.next()
	c.cart[item.ID] = *item
	c.Writes++
	return nil
}

func (c MemoryCart) UpdateQuantity(_ context.Context, userID, itemID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if it, ok := c.cart[itemID]; ok && it.UserID == userID {
		it.Quantity = quantity
		c.cart[itemID] = it
	}
	c.Writes++
	return nil
}

func (c MemoryCart) Delete(_ context.Context, userID, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if it, ok := c.cart[itemID]; ok && it.UserID == userID {
		delete(c.cart, itemID)
	}
	c.Writes++
	return nil
}

func (c MemoryCart) DeleteByUser(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, it := range c.cart {
		if it.UserID == userID {
			delete(c.cart, id)
		}
	}
	c.Writes++
	return nil
}

// MemoryOrders exposes the orders tables of a MemoryStore.
type MemoryOrders struct{ *MemoryStore }

func (o MemoryOrders) Create(_ context.Context, order *domain.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	order.ID = uuid.NewString()
	order.OrderNumber = fmt.Sprintf("SW-%04d", len(o.orders)+1)
	order.CreatedAt = o.next()
	o.orders[order.ID] = *order
	o.Writes++
	return nil
}

func (o MemoryOrders) CreateItems(_ context.Context, items []domain.OrderItem) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range items {
		items[i].ID = uuid.NewString()
		o.items = append(o.items, items[i])
	}
	o.Writes++
	return nil
}

func (o MemoryOrders) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := []domain.Order{}
	for _, ord := range o.orders {
		if ord.UserID != userID {
			continue
		}
		ord.Items = nil
		for _, it := range o.items {
			if it.OrderID == ord.ID {
				if p, ok := o.products[it.ProductID]; ok {
					it.Product = &domain.Product{Name: p.Name, ImageURL: p.ImageURL}
				}
				ord.Items = append(ord.Items, it)
			}
		}
		out = append(out, ord)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
