package model

import "github.com/shopspring/decimal"

// Pricing 運費與稅率設定
type Pricing struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// PricingSource 每次計價時取得目前的設定
type PricingSource interface {
	CurrentPricing() Pricing
}

// CurrentPricing 固定值本身就是一個 PricingSource
func (p Pricing) CurrentPricing() Pricing {
	return p
}

func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.NewFromInt(2500),
		FlatShippingFee:       decimal.NewFromInt(100),
		TaxRate:               decimal.NewFromFloat(0.14),
	}
}

// Subtotal 各品項 單價 x 數量 加總
func Subtotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}
	return total
}

// ShippingFee 滿額免運, 空購物車不收運費
func (p Pricing) ShippingFee(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return decimal.Zero
	}
	return p.FlatShippingFee
}

func (p Pricing) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(p.TaxRate).Round(2)
}

func (p Pricing) Summarize(items []CartItem) CartSummary {
	subtotal := Subtotal(items)
	shipping := p.ShippingFee(subtotal)
	tax := p.Tax(subtotal)

	count := 0
	for i := range items {
		count += items[i].Quantity
	}

	return CartSummary{
		Items:       items,
		ItemCount:   count,
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		Total:       subtotal.Add(shipping).Add(tax),
	}
}
