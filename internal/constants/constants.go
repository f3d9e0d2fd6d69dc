package constants

import "time"

const (
	//分頁
	DefaultPaging         int = 1
	CatalogPageSize       int = 12
	AdminPageSize         int = 20
	OrderHistoryPageSize  int = 10
	MaxPageSize           int = 100
	DefaultFeaturedCount  int = 8
	DefaultRecentOrders   int = 10
	DefaultLowStockListed int = 5
)

// 庫存分級門檻: 0 缺貨, 1..LowStockThreshold-1 低庫存
const LowStockThreshold int = 10

type SortOrderEnum string

const (
	DefaultSortOrder SortOrderEnum = "asc"
	SortOrderAsc     SortOrderEnum = "asc"
	SortOrderDesc    SortOrderEnum = "desc"
)

func IsValidSortOrderEnum(order string) bool {
	switch SortOrderEnum(order) {
	case SortOrderAsc, SortOrderDesc:
		return true
	default:
		return false
	}
}

// for api auth
type ContextKey string

const (
	AuthorizationPayloadKey ContextKey = "authorization_payload"
	AuthorizationScopeKey   ContextKey = "authorization_scope"
)

// 前台與後台使用不同 cookie, 互不影響
const (
	CustomerCookieName = "storefront.customer"
	AdminCookieName    = "storefront.admin"
)

const (
	DefaultTokenDuration   = 24 * time.Hour
	DefaultLockoutDuration = 15 * time.Minute
	DefaultMaxFailedLogins = 5
	BcryptCost             = 11
)

type ENV string

const (
	Debug ENV = "debug"
	Dev   ENV = "development"
	Stag  ENV = "staging"
	Prod  ENV = "production"
)

type RequestID string

const (
	RequestIDKey    RequestID = "request_id"
	RequestIDHeader string    = "X-Request-ID"
)
