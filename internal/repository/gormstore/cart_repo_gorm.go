package gormstore

import (
	"context"
	"errors"
	"webshop-service/internal/domain"
	"webshop-service/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cartRepo) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	var it domain.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *cartRepo) Insert(ctx context.Context, item *domain.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity).Error
}

func (r *cartRepo) Delete(ctx context.Context, userID, itemID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&domain.CartItem{}).Error
}

func (r *cartRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.CartItem{}).Error
}
