package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string          `json:"name" gorm:"not null"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ImageURL      string          `json:"image_url" gorm:"size:1024"`
	Category      string          `json:"category" gorm:"size:64;index"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	IsActive      bool            `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt     time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}
