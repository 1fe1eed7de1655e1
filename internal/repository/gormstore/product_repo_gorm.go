package gormstore

import (
	"context"
	"errors"
	"webshop-service/internal/domain"
	"webshop-service/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListActive(ctx context.Context, category string) ([]domain.Product, error) {
	out := []domain.Product{}
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
