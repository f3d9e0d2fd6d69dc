package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPricingSummarize(t *testing.T) {
	pricing := DefaultPricing()

	t.Run("below free shipping threshold", func(t *testing.T) {
		summary := pricing.Summarize([]CartItem{cartLine(1, "A", "100", 5, 2)})

		require.Equal(t, 2, summary.ItemCount)
		require.True(t, decimal.NewFromInt(200).Equal(summary.Subtotal))
		require.True(t, decimal.NewFromInt(100).Equal(summary.ShippingFee))
		require.True(t, decimal.NewFromInt(28).Equal(summary.Tax))
		require.True(t, decimal.NewFromInt(328).Equal(summary.Total))
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		summary := pricing.Summarize([]CartItem{cartLine(1, "A", "1250", 5, 2)})

		require.True(t, decimal.NewFromInt(2500).Equal(summary.Subtotal))
		require.True(t, summary.ShippingFee.IsZero())
		require.True(t, decimal.NewFromInt(350).Equal(summary.Tax))
	})

	t.Run("empty cart", func(t *testing.T) {
		summary := pricing.Summarize(nil)

		require.True(t, summary.IsEmpty())
		require.True(t, summary.Total.IsZero())
	})
}

func TestLineTotalWithoutProduct(t *testing.T) {
	item := CartItem{Quantity: 3}
	require.True(t, item.LineTotal().IsZero())
}
