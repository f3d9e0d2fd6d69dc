package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem 每個 (user, product) 只會有一筆
type CartItem struct {
	CartItemID int       `gorm:"primaryKey" json:"cart_item_id"`
	UserID     int       `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID  int       `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	AddedAt    time.Time `gorm:"not null" json:"added_at"`
	UpdatedAt  time.Time `gorm:"null" json:"updated_at"`
	Product    *Product  `gorm:"foreignKey:ProductID;references:ProductID" json:"product,omitempty"`
}

// LineTotal 以目前商品價格計算, 商品未載入時為 0
func (c *CartItem) LineTotal() decimal.Decimal {
	if c.Product == nil {
		return decimal.Zero
	}
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartSummary 購物車衍生金額, 不落地
type CartSummary struct {
	Items       []CartItem      `json:"items"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

func (s *CartSummary) IsEmpty() bool {
	return len(s.Items) == 0
}
