package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"webshop-service/internal/domain"
	"webshop-service/internal/repository"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	productTTL     = time.Minute
	productListTTL = 30 * time.Second
	warmupTTL      = 5 * time.Minute
	warmupParallel = 4
)

// Client is the subset of *redis.Client used for caching.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Client = (*redis.Client)(nil)

// ProductRepository is a read-through cache in front of the catalog. Cart
// pricing must not read through it.
type ProductRepository struct {
	next repository.ProductRepository
	rdb  Client
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(next repository.ProductRepository, rdb Client) *ProductRepository {
	return &ProductRepository{next: next, rdb: rdb}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func productListKey(category string) string {
	return "products:active:" + category
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	key := productKey(id)
	if cached, err := r.rdb.Get(ctx, key).Result(); err == nil {
		var p domain.Product
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return &p, nil
		}
	}

	p, err := r.next.FindByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	r.store(ctx, key, p, productTTL)
	return p, nil
}

func (r *ProductRepository) ListActive(ctx context.Context, category string) ([]domain.Product, error) {
	key := productListKey(category)
	if cached, err := r.rdb.Get(ctx, key).Result(); err == nil {
		var ps []domain.Product
		if err := json.Unmarshal([]byte(cached), &ps); err == nil {
			return ps, nil
		}
	}

	ps, err := r.next.ListActive(ctx, category)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, ps, productListTTL)
	return ps, nil
}

// Warmup loads the given products into the cache. Failures are logged and
// skipped.
func (r *ProductRepository) Warmup(ctx context.Context, ids []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmupParallel)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			p, err := r.next.FindByID(gctx, id)
			if err != nil {
				zap.L().Warn("cache warmup failed", zap.String("product_id", id), zap.Error(err))
				return nil
			}
			if p != nil {
				r.store(gctx, productKey(id), p, warmupTTL)
			}
			return nil
		})
	}
	return g.Wait()
}

func (r *ProductRepository) store(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		zap.L().Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
