package dto

import "github.com/shopspring/decimal"

type AddCartItemDTO struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type UpdateCartItemDTO struct {
	Quantity int `json:"quantity"`
}

type CartItemDTO struct {
	ProductID     int             `json:"product_id"`
	Name          string          `json:"name"`
	ImageUrl      string          `json:"image_url"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity"`
	LineTotal     decimal.Decimal `json:"line_total"`
	StockQuantity int             `json:"stock_quantity"`
	// 數量超過目前庫存時為 false, 結帳前提示用
	Available bool `json:"available"`
}

type CartDTO struct {
	Items       []CartItemDTO   `json:"items"`
	ItemCount   int             `json:"item_count"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shipping_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

type CartCountDTO struct {
	Count int `json:"count"`
}
