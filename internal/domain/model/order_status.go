package model

import "strings"

// OrderStatus 封閉列舉, 只接受下列五種
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusCompleted  OrderStatus = "Completed"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

var statusBadges = map[OrderStatus]string{
	OrderStatusPending:    "badge-warning",
	OrderStatusProcessing: "badge-info",
	OrderStatusShipped:    "badge-primary",
	OrderStatusCompleted:  "badge-success",
	OrderStatusCancelled:  "badge-danger",
}

// ParseOrderStatus 不分大小寫, 回傳正規名稱
func ParseOrderStatus(s string) (OrderStatus, bool) {
	s = strings.TrimSpace(s)
	for _, st := range AllOrderStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) IsValid() bool {
	_, ok := statusBadges[s]
	return ok
}

func (s OrderStatus) BadgeClass() string {
	if b, ok := statusBadges[s]; ok {
		return b
	}
	return "badge-secondary"
}

// IsTerminal 僅作顯示用, 狀態轉換不受限制
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}
