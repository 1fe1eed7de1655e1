package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
	"webshop-service/internal/domain"
	"webshop-service/internal/mocks"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func redisInt(n int64) *redis.IntCmd {
	return redis.NewIntResult(n, nil)
}

func TestOrderHistory_ListOrders(t *testing.T) {
	newer := domain.Order{ID: "o2", OrderNumber: "SW-0002", UserID: TestUserID, TotalAmount: price("5"),
		CreatedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)}
	older := domain.Order{ID: "o1", OrderNumber: "SW-0001", UserID: TestUserID, TotalAmount: price("42.50"),
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name          string
		session       domain.Session
		setupMocks    func(*mocks.MockOrderRepository)
		expectedError error
		expectedIDs   []string
	}{
		{
			name:          "guest",
			session:       domain.Guest(),
			setupMocks:    func(*mocks.MockOrderRepository) {},
			expectedError: domain.ErrAuthRequired,
		},
		{
			name:    "no orders is an empty list",
			session: testSession,
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("ListByUser", mock.Anything, TestUserID).Return(nil, nil)
			},
			expectedIDs: []string{},
		},
		{
			name:    "store order is kept",
			session: testSession,
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("ListByUser", mock.Anything, TestUserID).Return([]domain.Order{newer, older}, nil)
			},
			expectedIDs: []string{"o2", "o1"},
		},
		{
			name:    "store error",
			session: testSession,
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("ListByUser", mock.Anything, TestUserID).Return(nil, errors.New("permission denied"))
			},
			expectedError: domain.ErrFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockOrderRepository)
			tt.setupMocks(repo)

			orders, err := NewOrderHistory(repo).ListOrders(context.Background(), tt.session)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, orders)
			} else {
				require.NoError(t, err)
				require.NotNil(t, orders)
				ids := make([]string, 0, len(orders))
				for _, o := range orders {
					ids = append(ids, o.ID)
				}
				assert.Equal(t, tt.expectedIDs, ids)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestOrderHistory_NewestFirstWithItems(t *testing.T) {
	store := mocks.NewMemoryStore(CreateMockProduct("p1", "T-shirt", "20"))
	ctx := context.Background()
	cart := NewCartManager(mocks.MemoryCart{MemoryStore: store}, store, nil)
	checkout := NewCheckoutService(mocks.MemoryOrders{MemoryStore: store}, nil)

	for i := 0; i < 2; i++ {
		_, err := cart.AddItem(ctx, testSession, "p1", i+1)
		require.NoError(t, err)
		_, err = checkout.Submit(ctx, testSession, validShippingForm(), cart)
		require.NoError(t, err)
	}

	orders, err := NewOrderHistory(mocks.MemoryOrders{MemoryStore: store}).ListOrders(ctx, testSession)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "SW-0002", orders[0].OrderNumber)
	assert.Equal(t, "SW-0001", orders[1].OrderNumber)
	require.Len(t, orders[0].Items, 1)
	require.NotNil(t, orders[0].Items[0].Product)
	assert.Equal(t, "T-shirt", orders[0].Items[0].Product.Name)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
}

func TestOrderHistory_Cache(t *testing.T) {
	key := "orders:user:" + TestUserID
	cached := []domain.Order{{ID: "o1", OrderNumber: "SW-0001", UserID: TestUserID, TotalAmount: price("42.5")}}
	data, err := json.Marshal(cached)
	require.NoError(t, err)

	tests := []struct {
		name        string
		setupMocks  func(*mocks.MockRedisClient, *mocks.MockOrderRepository)
		expectedIDs []string
	}{
		{
			name: "hit skips the store",
			setupMocks: func(rdb *mocks.MockRedisClient, _ *mocks.MockOrderRepository) {
				rdb.On("Get", mock.Anything, key).Return(redis.NewStringResult(string(data), nil))
			},
			expectedIDs: []string{"o1"},
		},
		{
			name: "miss reads through and stores",
			setupMocks: func(rdb *mocks.MockRedisClient, repo *mocks.MockOrderRepository) {
				rdb.On("Get", mock.Anything, key).Return(redis.NewStringResult("", redis.Nil))
				repo.On("ListByUser", mock.Anything, TestUserID).Return([]domain.Order{{ID: "o9"}}, nil)
				rdb.On("Set", mock.Anything, key, mock.Anything, orderListTTL).Return(redis.NewStatusResult("OK", nil))
			},
			expectedIDs: []string{"o9"},
		},
		{
			name: "redis down falls back to the store",
			setupMocks: func(rdb *mocks.MockRedisClient, repo *mocks.MockOrderRepository) {
				rdb.On("Get", mock.Anything, key).Return(redis.NewStringResult("", errors.New("connection refused")))
				repo.On("ListByUser", mock.Anything, TestUserID).Return([]domain.Order{{ID: "o3"}}, nil)
				rdb.On("Set", mock.Anything, key, mock.Anything, orderListTTL).Return(redis.NewStatusResult("", errors.New("connection refused")))
			},
			expectedIDs: []string{"o3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := new(mocks.MockRedisClient)
			repo := new(mocks.MockOrderRepository)
			tt.setupMocks(rdb, repo)

			h := NewOrderHistory(repo)
			h.SetRedisClient(rdb)
			orders, err := h.ListOrders(context.Background(), testSession)

			require.NoError(t, err)
			ids := make([]string, 0, len(orders))
			for _, o := range orders {
				ids = append(ids, o.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
			rdb.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}
