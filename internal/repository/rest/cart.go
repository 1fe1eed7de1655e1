package rest

import (
	"context"
	"errors"
	"net/url"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra"
	"webshop-service/internal/repository"
)

type cartRepo struct {
	store infra.StoreClient
}

func NewCartRepository(store infra.StoreClient) repository.CartRepository {
	return &cartRepo{store: store}
}

func (r *cartRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	q := filter("user_id", userID)
	q.Set("select", cartSelect)
	q.Set("order", "created_at.asc")

	out := []domain.CartItem{}
	if err := r.store.Select(ctx, tableCartItems, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cartRepo) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	q := filter("user_id", userID, "product_id", productID)
	q.Set("select", "*")
	q.Set("limit", "1")

	var out []domain.CartItem
	if err := r.store.Select(ctx, tableCartItems, q, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *cartRepo) Insert(ctx context.Context, item *domain.CartItem) error {
	var out []domain.CartItem
	row := cartItemRow{UserID: item.UserID, ProductID: item.ProductID, Quantity: item.Quantity}
	if err := r.store.Insert(ctx, tableCartItems, row, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return errors.New("cart insert returned no row")
	}
	item.ID = out[0].ID
	item.CreatedAt = out[0].CreatedAt
	return nil
}

func (r *cartRepo) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	return r.store.Update(ctx, tableCartItems, filter("id", itemID, "user_id", userID), map[string]int{"quantity": quantity})
}

func (r *cartRepo) Delete(ctx context.Context, userID, itemID string) error {
	return r.store.Delete(ctx, tableCartItems, filter("id", itemID, "user_id", userID))
}

func (r *cartRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.store.Delete(ctx, tableCartItems, url.Values{"user_id": {infra.Eq(userID)}})
}
