package services

import (
	"context"
	"fmt"
	"webshop-service/internal/domain"
	"webshop-service/internal/repository"
)

// Catalog serves the active products of the webshop.
type Catalog struct {
	products repository.ProductRepository
}

func NewCatalog(products repository.ProductRepository) *Catalog {
	return &Catalog{products: products}
}

func (c *Catalog) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	ps, err := c.products.ListActive(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if ps == nil {
		ps = []domain.Product{}
	}
	return ps, nil
}

// Categories lists the distinct categories of active products in catalog
// order.
func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	ps, err := c.ListProducts(ctx, "")
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, p := range ps {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out, nil
}

func (c *Catalog) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := c.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}
