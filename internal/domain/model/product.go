package model

import (
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID        int             `gorm:"primaryKey" json:"product_id"`
	Name             string          `gorm:"not null;type:varchar(200)" json:"name"`
	Description      string          `gorm:"type:text" json:"description"`
	ShortDescription string          `gorm:"type:varchar(500)" json:"short_description"`
	Price            decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	StockQuantity    int             `gorm:"not null;default:0" json:"stock_quantity"`
	ImageUrl         string          `gorm:"type:varchar(500)" json:"image_url"`
	Brand            string          `gorm:"type:varchar(100)" json:"brand"`
	SKU              string          `gorm:"column:sku;type:varchar(50)" json:"sku"`
	IsActive         bool            `gorm:"not null;index" json:"is_active"`
	IsFeatured       bool            `gorm:"not null" json:"is_featured"`
	CategoryID       int             `gorm:"not null;index" json:"category_id"`
	Category         *Category       `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
	BaseModel
}

// StockLevel 庫存分級
type StockLevel string

const (
	StockLevelOut StockLevel = "out_of_stock"
	StockLevelLow StockLevel = "low_stock"
	StockLevelIn  StockLevel = "in_stock"
)

// ClassifyStock 0 缺貨, 1..LowStockThreshold-1 低庫存, 其餘有庫存
func ClassifyStock(quantity int) StockLevel {
	switch {
	case quantity <= 0:
		return StockLevelOut
	case quantity < constants.LowStockThreshold:
		return StockLevelLow
	default:
		return StockLevelIn
	}
}

func (p *Product) StockLevel() StockLevel {
	return ClassifyStock(p.StockQuantity)
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// StockBucketCounts 後台庫存頁面統計
type StockBucketCounts struct {
	InStock    int64 `json:"in_stock"`
	LowStock   int64 `json:"low_stock"`
	OutOfStock int64 `json:"out_of_stock"`
}

func (c StockBucketCounts) Total() int64 {
	return c.InStock + c.LowStock + c.OutOfStock
}

// DeleteOutcome 刪除商品的兩種結果
type DeleteOutcome string

const (
	// 有訂單紀錄只能下架
	DeleteOutcomeDeactivated DeleteOutcome = "deactivated"
	DeleteOutcomeDeleted     DeleteOutcome = "deleted"
)

func (o DeleteOutcome) Message() string {
	if o == DeleteOutcomeDeactivated {
		return "Product has been deactivated (has order history)."
	}
	return "Product deleted successfully."
}
