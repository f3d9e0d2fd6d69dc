package model

import "github.com/shopspring/decimal"

// DashboardStats 後台首頁統計
type DashboardStats struct {
	TotalProducts    int64                 `json:"total_products"`
	TotalOrders      int64                 `json:"total_orders"`
	TotalCustomers   int64                 `json:"total_customers"`
	TotalRevenue     decimal.Decimal       `json:"total_revenue"`
	TodayOrders      int64                 `json:"today_orders"`
	TodayRevenue     decimal.Decimal       `json:"today_revenue"`
	OrdersByStatus   map[OrderStatus]int64 `json:"orders_by_status"`
	PendingOrders    int64                 `json:"pending_orders"`
	ProcessingOrders int64                 `json:"processing_orders"`
	ShippedOrders    int64                 `json:"shipped_orders"`
	CompletedOrders  int64                 `json:"completed_orders"`
	LowStockCount    int64                 `json:"low_stock_count"`
	OutOfStockCount  int64                 `json:"out_of_stock_count"`
	RecentOrders     []Order               `json:"recent_orders"`
	LowStockProducts []Product             `json:"low_stock_products"`
}
