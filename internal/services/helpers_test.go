package services

import (
	"webshop-service/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	TestUserID    = "user-1"
	TestUserEmail = "ana@example.com"
	TestProductID = "prod-1"
)

var testSession = domain.Session{UserID: TestUserID, Email: TestUserEmail}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func CreateMockProduct(id, name, unitPrice string) domain.Product {
	return domain.Product{
		ID:            id,
		Name:          name,
		Price:         price(unitPrice),
		ImageURL:      "https://cdn.example.com/" + id + ".jpg",
		Category:      "merch",
		StockQuantity: 10,
		IsActive:      true,
	}
}

func CreateMockCartItem(id string, p domain.Product, quantity int) domain.CartItem {
	return domain.CartItem{
		ID:        id,
		UserID:    TestUserID,
		ProductID: p.ID,
		Quantity:  quantity,
		Product:   &p,
	}
}

func validShippingForm() domain.ShippingForm {
	return domain.ShippingForm{
		FirstName: "Ana",
		LastName:  "Horvat",
		Email:     TestUserEmail,
		Phone:     "091234567",
		Address:   "Ilica 1",
		City:      "Zagreb",
		ZipCode:   "10000",
	}
}
