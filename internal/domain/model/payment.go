package model

import "strings"

type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "Credit Card"
	PaymentPayPal         PaymentMethod = "PayPal"
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentInstaPay       PaymentMethod = "InstaPay"
)

var AllPaymentMethods = []PaymentMethod{
	PaymentCreditCard,
	PaymentPayPal,
	PaymentCashOnDelivery,
	PaymentInstaPay,
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	s = strings.TrimSpace(s)
	for _, m := range AllPaymentMethods {
		if strings.EqualFold(string(m), s) {
			return m, true
		}
	}
	return "", false
}

const (
	CardTypeVisa       = "Visa"
	CardTypeMastercard = "Mastercard"
	CardTypeAmex       = "American Express"
	CardTypeDiscover   = "Discover"
	CardTypeUnknown    = "Unknown"
)

// CardSnapshot 只保存末四碼與持卡人, 不保存完整卡號
type CardSnapshot struct {
	Last4Digits    string
	CardholderName string
	CardType       string
}

// NormalizeCardNumber 移除空白與破折號
func NormalizeCardNumber(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DetectCardType 依卡號前綴判斷發卡組織
func DetectCardType(number string) string {
	n := NormalizeCardNumber(number)
	if !isDigits(n) {
		return CardTypeUnknown
	}
	switch {
	case strings.HasPrefix(n, "4"):
		return CardTypeVisa
	case strings.HasPrefix(n, "34"), strings.HasPrefix(n, "37"):
		return CardTypeAmex
	case strings.HasPrefix(n, "6011"), strings.HasPrefix(n, "65"):
		return CardTypeDiscover
	}
	if len(n) >= 2 {
		if p := n[:2]; p >= "51" && p <= "55" {
			return CardTypeMastercard
		}
	}
	if len(n) >= 4 {
		if p := n[:4]; p >= "2221" && p <= "2720" {
			return CardTypeMastercard
		}
	}
	return CardTypeUnknown
}

func Last4(number string) string {
	n := NormalizeCardNumber(number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}
