package services

import (
	"context"
	"errors"
	"testing"
	"webshop-service/internal/domain"
	"webshop-service/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Categories(t *testing.T) {
	hoodie := CreateMockProduct("p1", "Hoodie", "49.90")
	mug := CreateMockProduct("p2", "Mug", "12")
	mug.Category = "home"
	beanie := CreateMockProduct("p3", "Beanie", "19")
	uncategorized := CreateMockProduct("p4", "Gift card", "25")
	uncategorized.Category = ""

	repo := new(mocks.MockProductRepository)
	repo.On("ListActive", mock.Anything, "").Return([]domain.Product{hoodie, mug, beanie, uncategorized}, nil)

	categories, err := NewCatalog(repo).Categories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"merch", "home"}, categories)
	repo.AssertExpectations(t)
}

func TestCatalog_ListProducts(t *testing.T) {
	tests := []struct {
		name          string
		category      string
		setupMocks    func(*mocks.MockProductRepository)
		expectedError error
		expectedLen   int
	}{
		{
			name:     "filtered by category",
			category: "merch",
			setupMocks: func(repo *mocks.MockProductRepository) {
				repo.On("ListActive", mock.Anything, "merch").Return([]domain.Product{
					CreateMockProduct("p1", "Hoodie", "49.90"),
				}, nil)
			},
			expectedLen: 1,
		},
		{
			name: "nothing active",
			setupMocks: func(repo *mocks.MockProductRepository) {
				repo.On("ListActive", mock.Anything, "").Return(nil, nil)
			},
		},
		{
			name: "store error",
			setupMocks: func(repo *mocks.MockProductRepository) {
				repo.On("ListActive", mock.Anything, "").Return(nil, errors.New("timeout"))
			},
			expectedError: domain.ErrFetchFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mocks.MockProductRepository)
			tt.setupMocks(repo)

			products, err := NewCatalog(repo).ListProducts(context.Background(), tt.category)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, products)
				assert.Len(t, products, tt.expectedLen)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalog_GetProduct(t *testing.T) {
	repo := new(mocks.MockProductRepository)
	hoodie := CreateMockProduct(TestProductID, "Hoodie", "49.90")
	repo.On("FindByID", mock.Anything, TestProductID).Return(&hoodie, nil)
	repo.On("FindByID", mock.Anything, "missing").Return(nil, nil)

	c := NewCatalog(repo)

	p, err := c.GetProduct(context.Background(), TestProductID)
	require.NoError(t, err)
	assert.Equal(t, "Hoodie", p.Name)

	_, err = c.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
