package model

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// 欄位長度上限, 需與 migrations/000001_init_schema.up.sql 及 gorm tag 一致
const (
	MaxEmailLength            = 100
	MaxFullNameLength         = 100
	MaxPhoneLength            = 20
	MaxUserAddressLength      = 500
	MaxShippingAddressLength  = 200 // 欄位是 500, 結帳表單限制 200
	MaxCityLength             = 100
	MaxCardholderNameLength   = 100
	MaxProductNameLength      = 200
	MaxShortDescriptionLength = 500
	MaxImageUrlLength         = 500
	MaxBrandLength            = 100
	MaxSKULength              = 50
)

// MaxPrice decimal(10,2) 可存的最大值
var MaxPrice = decimal.RequireFromString("99999999.99")

// ExceedsLength 以字元數計算, 與 postgres varchar(n) 相同
func ExceedsLength(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}
