package model

import (
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/shopspring/decimal"
)

type ProductSort string

const (
	ProductSortDefault ProductSort = ""
	ProductSortPrice   ProductSort = "price"
	ProductSortName    ProductSort = "name"
	ProductSortStock   ProductSort = "stock"
	ProductSortNewest  ProductSort = "newest"
)

// ParseProductSort 未知的排序一律回預設 (精選優先, 名稱)
func ParseProductSort(s string) ProductSort {
	switch ProductSort(strings.ToLower(strings.TrimSpace(s))) {
	case ProductSortPrice:
		return ProductSortPrice
	case ProductSortName:
		return ProductSortName
	case ProductSortStock:
		return ProductSortStock
	case ProductSortNewest:
		return ProductSortNewest
	default:
		return ProductSortDefault
	}
}

type ProductQuery struct {
	CategoryID  int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
	Search      string
	SortBy      ProductSort
	SortDesc    bool
	// 後台列表會包含已下架商品
	IncludeInactive bool
	Page            int
	PageSize        int
}

// Normalize 修正頁碼與搜尋字串
func (q *ProductQuery) Normalize(defaultPageSize int) {
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	q.Page, q.PageSize = NormalizePaging(q.Page, q.PageSize, defaultPageSize)
}

type OrderQuery struct {
	UserID   int
	Status   OrderStatus
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

func (q *OrderQuery) Normalize(defaultPageSize int) {
	q.Page, q.PageSize = NormalizePaging(q.Page, q.PageSize, defaultPageSize)
}

func NormalizePaging(page, pageSize, defaultPageSize int) (int, int) {
	if page < constants.DefaultPaging {
		page = constants.DefaultPaging
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}

// Page 分頁結果
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
}

func NewPage[T any](items []T, total int64, page, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, TotalCount: total, Page: page, PageSize: pageSize}
}

func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}

func (p Page[T]) HasPrevious() bool {
	return p.Page > 1
}

func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}
