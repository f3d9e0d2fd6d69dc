package event

import (
	"strconv"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
)

type OrderItemData struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderPlacedEvent 訂單成立後才會送出
type OrderPlacedEvent struct {
	BaseEvent
	OrderID     int               `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	UserID      int               `json:"user_id"`
	OrderDate   time.Time         `json:"order_date"`
	Items       []OrderItemData   `json:"items"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	GrandTotal  decimal.Decimal   `json:"grand_total"`
	Status      model.OrderStatus `json:"status"`
}

func (e *OrderPlacedEvent) Type() EventType {
	return OrderPlacedEventName
}

type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID    int               `json:"order_id"`
	UserID     int               `json:"user_id"`
	FromStatus model.OrderStatus `json:"from_status"`
	ToStatus   model.OrderStatus `json:"to_status"`
}

func (e *OrderStatusChangedEvent) Type() EventType {
	return OrderStatusChangedEventName
}

func NewOrderPlacedEvent(order *model.Order, now time.Time) *OrderPlacedEvent {
	items := make([]OrderItemData, 0, len(order.OrderDetails))
	for _, d := range order.OrderDetails {
		items = append(items, OrderItemData{
			ProductID:   d.ProductID,
			ProductName: d.ProductName,
			Quantity:    d.Quantity,
			UnitPrice:   d.UnitPrice,
		})
	}
	return &OrderPlacedEvent{
		BaseEvent:   NewBaseEvent(strconv.Itoa(order.OrderID), OrderPlacedEventName, now),
		OrderID:     order.OrderID,
		OrderNumber: order.OrderNumber(),
		UserID:      order.UserID,
		OrderDate:   order.OrderDate,
		Items:       items,
		TotalAmount: order.TotalAmount,
		GrandTotal:  order.GrandTotal(),
		Status:      order.Status,
	}
}

func NewOrderStatusChangedEvent(order *model.Order, from model.OrderStatus, now time.Time) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseEvent:  NewBaseEvent(strconv.Itoa(order.OrderID), OrderStatusChangedEventName, now),
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		FromStatus: from,
		ToStatus:   order.Status,
	}
}
