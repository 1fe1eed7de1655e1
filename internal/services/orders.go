package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"webshop-service/internal/domain"
	"webshop-service/internal/repository"
	"webshop-service/internal/repository/cache"

	"go.uber.org/zap"
)

const orderListTTL = 10 * time.Second

// OrderHistory is the read-only view of a user's past orders.
type OrderHistory struct {
	repo        repository.OrderRepository
	redisClient cache.Client
}

func NewOrderHistory(repo repository.OrderRepository) *OrderHistory {
	return &OrderHistory{repo: repo}
}

func (h *OrderHistory) SetRedisClient(client cache.Client) {
	h.redisClient = client
}

func orderListKey(userID string) string {
	return "orders:user:" + userID
}

// ListOrders returns the user's orders newest first. No orders is an empty
// slice, not an error.
func (h *OrderHistory) ListOrders(ctx context.Context, s domain.Session) ([]domain.Order, error) {
	if s.IsGuest() {
		return nil, domain.ErrAuthRequired
	}

	key := orderListKey(s.UserID)
	if h.redisClient != nil {
		if cached, err := h.redisClient.Get(ctx, key).Result(); err == nil {
			var orders []domain.Order
			if err := json.Unmarshal([]byte(cached), &orders); err == nil {
				return orders, nil
			}
		}
	}

	orders, err := h.repo.ListByUser(ctx, s.UserID)
	if err != nil {
		zap.L().Error("list orders failed", zap.String("user_id", s.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	if h.redisClient != nil {
		if data, err := json.Marshal(orders); err == nil {
			h.redisClient.Set(ctx, key, data, orderListTTL)
		}
	}
	return orders, nil
}

// Invalidate drops the cached list of userID.
func (h *OrderHistory) Invalidate(ctx context.Context, userID string) {
	if h.redisClient == nil {
		return
	}
	if err := h.redisClient.Del(ctx, orderListKey(userID)).Err(); err != nil {
		zap.L().Warn("order cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
