package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidOrderStatus = errors.New("invalid order status")

type Order struct {
	OrderID         int             `gorm:"primaryKey" json:"order_id"`
	UserID          int             `gorm:"not null;index" json:"user_id"`
	OrderDate       time.Time       `gorm:"not null;index" json:"order_date"`
	TotalAmount     decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"total_amount"`
	ShippingFee     decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"shipping_fee"`
	TaxAmount       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"tax_amount"`
	Status          OrderStatus     `gorm:"not null;type:varchar(20);index" json:"status"`
	ShippingAddress string          `gorm:"not null;type:varchar(500)" json:"shipping_address"`
	City            string          `gorm:"not null;type:varchar(100)" json:"city"`
	Email           string          `gorm:"not null;type:varchar(100)" json:"email"`
	Phone           string          `gorm:"not null;type:varchar(20)" json:"phone"`
	PaymentMethod   PaymentMethod   `gorm:"not null;type:varchar(30)" json:"payment_method"`
	CardLast4Digits string          `gorm:"column:card_last4_digits;type:varchar(4)" json:"card_last4_digits,omitempty"`
	CardholderName  string          `gorm:"type:varchar(100)" json:"cardholder_name,omitempty"`
	CardType        string          `gorm:"type:varchar(30)" json:"card_type,omitempty"`
	ShippedDate     *time.Time      `json:"shipped_date,omitempty"`
	DeliveredDate   *time.Time      `json:"delivered_date,omitempty"`
	OrderDetails    []OrderDetail   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_details,omitempty"`
	User            *User           `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	BaseModel
}

// OrderDetail 下單當下的快照, 建立後不再異動
type OrderDetail struct {
	OrderDetailID   int             `gorm:"primaryKey" json:"order_detail_id"`
	OrderID         int             `gorm:"not null;index" json:"order_id"`
	ProductID       int             `gorm:"not null;index" json:"product_id"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"unit_price"`
	ProductName     string          `gorm:"not null;type:varchar(200)" json:"product_name"`
	ProductImageUrl string          `gorm:"type:varchar(500)" json:"product_image_url"`
}

func (d *OrderDetail) LineTotal() decimal.Decimal {
	return d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

func FormatOrderNumber(orderID int) string {
	return fmt.Sprintf("ORD-%06d", orderID)
}

func (o *Order) OrderNumber() string {
	return FormatOrderNumber(o.OrderID)
}

func (o *Order) ItemCount() int {
	count := 0
	for i := range o.OrderDetails {
		count += o.OrderDetails[i].Quantity
	}
	return count
}

// GrandTotal 商品金額 + 運費 + 稅
func (o *Order) GrandTotal() decimal.Decimal {
	return o.TotalAmount.Add(o.ShippingFee).Add(o.TaxAmount)
}

// TransitionTo 任何合法狀態之間都可轉換
// 第一次進入 Shipped / Completed 才會寫入日期, 之後不覆寫
func (o *Order) TransitionTo(status OrderStatus, now time.Time) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}
	o.Status = status
	switch status {
	case OrderStatusShipped:
		if o.ShippedDate == nil {
			t := now
			o.ShippedDate = &t
		}
	case OrderStatusCompleted:
		if o.DeliveredDate == nil {
			t := now
			o.DeliveredDate = &t
		}
	}
	return nil
}

// NewOrderFromCart 依購物車建立訂單與明細快照
// 呼叫前需確認 items 皆已載入 Product
func NewOrderFromCart(userID int, items []CartItem, info ShippingInfo, pricing Pricing, now time.Time) *Order {
	details := make([]OrderDetail, 0, len(items))
	for i := range items {
		p := items[i].Product
		details = append(details, OrderDetail{
			ProductID:       items[i].ProductID,
			Quantity:        items[i].Quantity,
			UnitPrice:       p.Price,
			ProductName:     p.Name,
			ProductImageUrl: p.ImageUrl,
		})
	}

	total := Subtotal(items)
	snapshot := info.CardSnapshot()

	return &Order{
		UserID:          userID,
		OrderDate:       now,
		TotalAmount:     total,
		ShippingFee:     pricing.ShippingFee(total),
		TaxAmount:       pricing.Tax(total),
		Status:          OrderStatusPending,
		ShippingAddress: info.ShippingAddress,
		City:            info.City,
		Email:           info.Email,
		Phone:           info.Phone,
		PaymentMethod:   info.PaymentMethod,
		CardLast4Digits: snapshot.Last4Digits,
		CardholderName:  snapshot.CardholderName,
		CardType:        snapshot.CardType,
		OrderDetails:    details,
	}
}
