package mocks

import (
	"context"
	"sync"
	"time"
	"webshop-service/internal/domain"
	"webshop-service/internal/infra"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/mock"
)

type MockCartRepository struct {
	mock.Mock
}

type MockProductRepository struct {
	mock.Mock
}

type MockOrderRepository struct {
	mock.Mock
}

type MockProfileRepository struct {
	mock.Mock
}

type MockAuthProvider struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockRedisClient struct {
	mock.Mock
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID string) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) Insert(ctx context.Context, item *domain.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	args := m.Called(ctx, userID, itemID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListActive(ctx context.Context, category string) ([]domain.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateItems(ctx context.Context, items []domain.OrderItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockProfileRepository) FindByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockAuthProvider) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*infra.AuthSession, error) {
	args := m.Called(ctx, email, password, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.AuthSession), args.Error(1)
}

func (m *MockAuthProvider) SignIn(ctx context.Context, email, password string) (*infra.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.AuthSession), args.Error(1)
}

func (m *MockAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	args := m.Called(ctx, accessToken)
	return args.Error(0)
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

// RecordingEmitter keeps every emitted event.
type RecordingEmitter struct {
	mu     sync.Mutex
	events []domain.NotificationEvent
}

func (e *RecordingEmitter) Emit(evt domain.NotificationEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, evt)
}

func (e *RecordingEmitter) Events() []domain.NotificationEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.NotificationEvent, len(e.events))
	copy(out, e.events)
	return out
}

type MockCheckoutCart struct {
	mock.Mock
}

func (m *MockCheckoutCart) Snapshot() domain.Cart {
	args := m.Called()
	return args.Get(0).(domain.Cart)
}

func (m *MockCheckoutCart) Clear(ctx context.Context, s domain.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
