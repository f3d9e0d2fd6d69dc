package model

import (
	"net/mail"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
)

// ShippingInfo 結帳表單
type ShippingInfo struct {
	ShippingAddress string        `json:"shipping_address"`
	City            string        `json:"city"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	CardNumber      string        `json:"card_number,omitempty"`
	CardholderName  string        `json:"cardholder_name,omitempty"`
}

// Normalize 去除空白, 付款方式轉為正規名稱
func (s *ShippingInfo) Normalize() {
	s.ShippingAddress = strings.TrimSpace(s.ShippingAddress)
	s.City = strings.TrimSpace(s.City)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Phone = strings.TrimSpace(s.Phone)
	s.CardholderName = strings.TrimSpace(s.CardholderName)
	s.CardNumber = NormalizeCardNumber(s.CardNumber)
	if m, ok := ParsePaymentMethod(string(s.PaymentMethod)); ok {
		s.PaymentMethod = m
	}
}

func (s *ShippingInfo) Validate() error {
	switch {
	case s.ShippingAddress == "":
		return apperr.New(apperr.InvalidArgument, "Shipping address is required.")
	case s.City == "":
		return apperr.New(apperr.InvalidArgument, "City is required.")
	case s.Email == "":
		return apperr.New(apperr.InvalidArgument, "Email is required.")
	case s.Phone == "":
		return apperr.New(apperr.InvalidArgument, "Phone is required.")
	}
	switch {
	case ExceedsLength(s.ShippingAddress, MaxShippingAddressLength):
		return apperr.Newf(apperr.InvalidArgument, "Shipping address cannot exceed %d characters.", MaxShippingAddressLength)
	case ExceedsLength(s.City, MaxCityLength):
		return apperr.Newf(apperr.InvalidArgument, "City cannot exceed %d characters.", MaxCityLength)
	case ExceedsLength(s.Email, MaxEmailLength):
		return apperr.Newf(apperr.InvalidArgument, "Email cannot exceed %d characters.", MaxEmailLength)
	case ExceedsLength(s.Phone, MaxPhoneLength):
		return apperr.Newf(apperr.InvalidArgument, "Phone cannot exceed %d characters.", MaxPhoneLength)
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return apperr.Wrap(apperr.InvalidArgument, "Invalid email address.", err)
	}
	if _, ok := ParsePaymentMethod(string(s.PaymentMethod)); !ok {
		return apperr.New(apperr.InvalidArgument, "Please select a valid payment method.")
	}
	if s.PaymentMethod == PaymentCreditCard {
		n := NormalizeCardNumber(s.CardNumber)
		if len(n) < 13 || len(n) > 19 || !isDigits(n) {
			return apperr.New(apperr.InvalidArgument, "Invalid card number.")
		}
		if strings.TrimSpace(s.CardholderName) == "" {
			return apperr.New(apperr.InvalidArgument, "Cardholder name is required.")
		}
		if ExceedsLength(strings.TrimSpace(s.CardholderName), MaxCardholderNameLength) {
			return apperr.Newf(apperr.InvalidArgument, "Cardholder name cannot exceed %d characters.", MaxCardholderNameLength)
		}
	}
	return nil
}

// CardSnapshot 非信用卡付款回傳空值
func (s *ShippingInfo) CardSnapshot() CardSnapshot {
	if s.PaymentMethod != PaymentCreditCard || s.CardNumber == "" {
		return CardSnapshot{}
	}
	return CardSnapshot{
		Last4Digits:    Last4(s.CardNumber),
		CardholderName: strings.TrimSpace(s.CardholderName),
		CardType:       DetectCardType(s.CardNumber),
	}
}
