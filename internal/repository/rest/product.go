package rest

import (
	"context"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra"
	"webshop-service/internal/repository"
)

type productRepo struct {
	store infra.StoreClient
}

func NewProductRepository(store infra.StoreClient) repository.ProductRepository {
	return &productRepo{store: store}
}

func (r *productRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	q := filter("id", id, "is_active", "true")
	q.Set("select", "*")
	q.Set("limit", "1")

	var out []domain.Product
	if err := r.store.Select(ctx, tableProducts, q, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *productRepo) ListActive(ctx context.Context, category string) ([]domain.Product, error) {
	q := filter("is_active", "true")
	if category != "" {
		q.Set("category", infra.Eq(category))
	}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	out := []domain.Product{}
	if err := r.store.Select(ctx, tableProducts, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
