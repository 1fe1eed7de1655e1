package gormstore

import (
	"context"
	"errors"
	"webshop-service/internal/domain"
	"webshop-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const itemBatchSize = 100

type orderRepo struct {
	db      *gorm.DB
	numbers *OrderNumbers
}

func NewOrderRepository(db *gorm.DB, numbers *OrderNumbers) repository.OrderRepository {
	return &orderRepo{db: db, numbers: numbers}
}

// Create stores the order header only. ID, order number and status are
// assigned here when the caller left them empty.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = r.numbers.Next()
	}
	if order.Status == "" {
		order.Status = domain.StatusPending
	}

	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(order)
	if result.Error != nil {
		zap.L().Error("order create failed", zap.String("user_id", order.UserID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("order insert affected no rows")
	}

	zap.L().Info("order saved",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber))
	return nil
}

// CreateItems inserts all items in one transaction, in chunks.
func (r *orderRepo) CreateItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < len(items); i += itemBatchSize {
			end := i + itemBatchSize
			if end > len(items) {
				end = len(items)
			}

			batch := items[i:end]
			if err := tx.Omit(clause.Associations).Create(&batch).Error; err != nil {
				zap.L().Error("order items insert failed",
					zap.String("order_id", batch[0].OrderID),
					zap.Int("from", i), zap.Int("to", end), zap.Error(err))
				return err
			}
		}
		return nil
	})
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		zap.L().Error("list orders failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return out, nil
}
