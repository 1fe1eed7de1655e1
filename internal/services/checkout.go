package services

import (
	"context"
	"fmt"
	"webshop-service/internal/domain"
	"webshop-service/internal/notify"
	"webshop-service/internal/repository"

	"go.uber.org/zap"
)

// CheckoutCart is the cart a checkout reads from and empties afterwards.
type CheckoutCart interface {
	Snapshot() domain.Cart
	Clear(ctx context.Context, s domain.Session) error
}

var _ CheckoutCart = (*CartManager)(nil)

type CheckoutService struct {
	orders  repository.OrderRepository
	emitter notify.Emitter
	history *OrderHistory
}

func NewCheckoutService(orders repository.OrderRepository, emitter notify.Emitter) *CheckoutService {
	if emitter == nil {
		emitter = notify.Discard{}
	}
	return &CheckoutService{orders: orders, emitter: emitter}
}

// SetOrderHistory makes successful checkouts drop the user's cached order
// list.
func (c *CheckoutService) SetOrderHistory(h *OrderHistory) {
	c.history = h
}

// Submit turns the current cart into a pending order. Preconditions are all
// checked before the store is touched. The order header and its items are
// two separate writes; when the second fails the header stays and a
// *domain.PartialOrderError is returned. The cart is only cleared once both
// writes succeeded.
func (c *CheckoutService) Submit(ctx context.Context, s domain.Session, form domain.ShippingForm, cart CheckoutCart) (*domain.Order, error) {
	if s.IsGuest() {
		return nil, domain.ErrAuthRequired
	}
	snap := cart.Snapshot()
	if snap.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	items, names, err := orderLines(snap)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:      s.UserID,
		TotalAmount: snap.TotalPrice(),
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		Phone:       form.Phone,
		Address:     form.Address,
		City:        form.City,
		ZipCode:     form.ZipCode,
		Status:      domain.StatusPending,
	}
	if err := c.orders.Create(ctx, order); err != nil {
		zap.L().Error("create order failed", zap.String("user_id", s.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrOrderCreationFailed, err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := c.orders.CreateItems(ctx, items); err != nil {
		zap.L().Error("order stored without items",
			zap.String("user_id", s.UserID),
			zap.String("order_id", order.ID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		// the header is visible in the history even without items
		c.invalidateHistory(ctx, s.UserID)
		return nil, &domain.PartialOrderError{OrderID: order.ID, OrderNumber: order.OrderNumber, Err: err}
	}

	for i := range items {
		if p, ok := snap.Find(items[i].ProductID); ok && p.Product != nil {
			items[i].Product = &domain.Product{ID: p.Product.ID, Name: p.Product.Name, ImageURL: p.Product.ImageURL}
		}
	}
	order.Items = items

	if err := cart.Clear(ctx, s); err != nil {
		zap.L().Warn("clear cart after checkout failed",
			zap.String("user_id", s.UserID),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
	c.invalidateHistory(ctx, s.UserID)

	c.emitter.Emit(domain.NewOrderEvent(s, *order, names))

	zap.L().Info("order placed",
		zap.String("user_id", s.UserID),
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("total", order.TotalAmount.String()))
	return order, nil
}

func (c *CheckoutService) invalidateHistory(ctx context.Context, userID string) {
	if c.history != nil {
		c.history.Invalidate(ctx, userID)
	}
}

// orderLines builds one item per distinct product, priced at the product's
// current price. Lines for the same product are merged.
func orderLines(cart domain.Cart) ([]domain.OrderItem, map[string]string, error) {
	items := make([]domain.OrderItem, 0, len(cart.Items))
	index := make(map[string]int, len(cart.Items))
	names := make(map[string]string, len(cart.Items))

	for _, line := range cart.Items {
		if line.Product == nil {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, line.ProductID)
		}
		if i, ok := index[line.ProductID]; ok {
			items[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(items)
		names[line.ProductID] = line.Product.Name
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Product.Price,
		})
	}
	return items, names, nil
}
