package rest

import (
	"context"
	"errors"
	"fmt"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra"
	"webshop-service/internal/repository"
)

type orderRepo struct {
	store infra.StoreClient
}

func NewOrderRepository(store infra.StoreClient) repository.OrderRepository {
	return &orderRepo{store: store}
}

// Create relies on the store to assign id, order_number and created_at.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	status := order.Status
	if status == "" {
		status = domain.StatusPending
	}
	row := orderRow{
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		FirstName:   order.FirstName,
		LastName:    order.LastName,
		Email:       order.Email,
		Phone:       order.Phone,
		Address:     order.Address,
		City:        order.City,
		ZipCode:     order.ZipCode,
		Status:      string(status),
	}

	var out []domain.Order
	if err := r.store.Insert(ctx, tableOrders, row, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return errors.New("order insert returned no row")
	}
	order.ID = out[0].ID
	order.OrderNumber = out[0].OrderNumber
	order.CreatedAt = out[0].CreatedAt
	order.Status = out[0].Status
	return nil
}

func (r *orderRepo) CreateItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]orderItemRow, len(items))
	for i, it := range items {
		rows[i] = orderItemRow{
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}

	var out []domain.OrderItem
	if err := r.store.Insert(ctx, tableOrderItems, rows, &out); err != nil {
		return err
	}
	if len(out) != len(items) {
		return fmt.Errorf("order items insert returned %d rows, want %d", len(out), len(items))
	}
	for i := range items {
		items[i].ID = out[i].ID
	}
	return nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := filter("user_id", userID)
	q.Set("select", orderSelect)
	q.Set("order", "created_at.desc")

	out := []domain.Order{}
	if err := r.store.Select(ctx, tableOrders, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
