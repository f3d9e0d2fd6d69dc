package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequestDTO 後台新增/編輯商品
// 編輯時 stock_quantity 會被忽略, 庫存只能走 stock / restock
type ProductRequestDTO struct {
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description"`
	Price            decimal.Decimal `json:"price"`
	StockQuantity    int             `json:"stock_quantity"`
	ImageUrl         string          `json:"image_url"`
	Brand            string          `json:"brand"`
	SKU              string          `json:"sku"`
	IsActive         *bool           `json:"is_active"`
	IsFeatured       bool            `json:"is_featured"`
	CategoryID       int             `json:"category_id"`
}

type StockDTO struct {
	Quantity int `json:"quantity"`
}

type ProductDTO struct {
	ProductID        int             `json:"product_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	ShortDescription string          `json:"short_description"`
	Price            decimal.Decimal `json:"price"`
	StockQuantity    int             `json:"stock_quantity"`
	StockLevel       string          `json:"stock_level"`
	ImageUrl         string          `json:"image_url"`
	Brand            string          `json:"brand"`
	SKU              string          `json:"sku"`
	IsActive         bool            `json:"is_active"`
	IsFeatured       bool            `json:"is_featured"`
	CategoryID       int             `json:"category_id"`
	CategoryName     string          `json:"category_name,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type CategoryDTO struct {
	CategoryID   int    `json:"category_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	IconClass    string `json:"icon_class"`
	DisplayOrder int    `json:"display_order"`
	ProductCount int64  `json:"product_count"`
}

type StockResultDTO struct {
	ProductID     int    `json:"product_id"`
	StockQuantity int    `json:"stock_quantity"`
	StockLevel    string `json:"stock_level"`
}

type DeleteProductDTO struct {
	ProductID int    `json:"product_id"`
	Outcome   string `json:"outcome"`
}

type InventoryDTO struct {
	InStock    int64               `json:"in_stock"`
	LowStock   int64               `json:"low_stock"`
	OutOfStock int64               `json:"out_of_stock"`
	Products   PageDTO[ProductDTO] `json:"products"`
}

type PageDTO[T any] struct {
	Items       []T   `json:"items"`
	TotalCount  int64 `json:"total_count"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}
