package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlaceOrderDTO 結帳表單, 卡號只在信用卡付款時需要
type PlaceOrderDTO struct {
	ShippingAddress string `json:"shipping_address"`
	City            string `json:"city"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	PaymentMethod   string `json:"payment_method"`
	CardNumber      string `json:"card_number"`
	CardholderName  string `json:"cardholder_name"`
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status"`
}

type OrderItemDTO struct {
	ProductID       int             `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductImageUrl string          `json:"product_image_url"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        int             `json:"quantity"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

type OrderDTO struct {
	OrderID         int             `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	OrderDate       time.Time       `json:"order_date"`
	Status          string          `json:"status"`
	StatusBadge     string          `json:"status_badge"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	ItemCount       int             `json:"item_count"`
	ShippingAddress string          `json:"shipping_address"`
	City            string          `json:"city"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	PaymentMethod   string          `json:"payment_method"`
	CardLast4Digits string          `json:"card_last4_digits,omitempty"`
	CardType        string          `json:"card_type,omitempty"`
	ShippedDate     *time.Time      `json:"shipped_date,omitempty"`
	DeliveredDate   *time.Time      `json:"delivered_date,omitempty"`
	Items           []OrderItemDTO  `json:"items,omitempty"`
	Customer        *UserDTO        `json:"customer,omitempty"`
}

type DashboardDTO struct {
	TotalProducts    int64            `json:"total_products"`
	TotalOrders      int64            `json:"total_orders"`
	TotalCustomers   int64            `json:"total_customers"`
	TotalRevenue     decimal.Decimal  `json:"total_revenue"`
	TodayOrders      int64            `json:"today_orders"`
	TodayRevenue     decimal.Decimal  `json:"today_revenue"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	LowStockCount    int64            `json:"low_stock_count"`
	OutOfStockCount  int64            `json:"out_of_stock_count"`
	RecentOrders     []OrderDTO       `json:"recent_orders"`
	LowStockProducts []ProductDTO     `json:"low_stock_products"`
}
