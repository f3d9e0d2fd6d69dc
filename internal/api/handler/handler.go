package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const (
	msgInvalidBody = "Invalid request body."
	msgInvalidID   = "Invalid id."
)

// body 上限 1MB, 多餘欄位忽略
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		api.BadRequest(w, msgInvalidBody)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		api.BadRequest(w, msgInvalidID)
		return 0, false
	}
	return id, true
}

// 解析失敗回傳預設值, 不當成錯誤
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return v
}

func queryDecimal(r *http.Request, key string) *decimal.Decimal {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

// 路由已經過 AuthMiddleware, payload 一定存在
func currentUserID(r *http.Request) int {
	if payload := util.GetTokenPayloadFromContext(r.Context()); payload != nil {
		return payload.UserID
	}
	return 0
}

func productQueryFromRequest(r *http.Request) model.ProductQuery {
	q := r.URL.Query()
	return model.ProductQuery{
		CategoryID:  queryInt(r, "category", 0),
		MinPrice:    queryDecimal(r, "min_price"),
		MaxPrice:    queryDecimal(r, "max_price"),
		InStockOnly: queryBool(r, "in_stock"),
		Search:      q.Get("search"),
		SortBy:      model.ParseProductSort(q.Get("sort")),
		SortDesc:    strings.EqualFold(q.Get("order"), "desc"),
		Page:        queryInt(r, "page", 1),
	}
}

func toPageDTO[T any, D any](p model.Page[T], convert func(*T) D) dto.PageDTO[D] {
	items := make([]D, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, convert(&p.Items[i]))
	}
	return dto.PageDTO[D]{
		Items:       items,
		TotalCount:  p.TotalCount,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalPages:  p.TotalPages(),
		HasPrevious: p.HasPrevious(),
		HasNext:     p.HasNext(),
	}
}

func convertUserModelToDTO(u *model.User) dto.UserDTO {
	return dto.UserDTO{
		UserID:      u.UserID,
		Email:       u.Email,
		FullName:    u.FullName,
		Phone:       u.Phone,
		Address:     u.Address,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
	}
}

func convertProductModelToDTO(p *model.Product) dto.ProductDTO {
	out := dto.ProductDTO{
		ProductID:        p.ProductID,
		Name:             p.Name,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            p.Price,
		StockQuantity:    p.StockQuantity,
		StockLevel:       string(p.StockLevel()),
		ImageUrl:         p.ImageUrl,
		Brand:            p.Brand,
		SKU:              p.SKU,
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
		CategoryID:       p.CategoryID,
		CreatedAt:        p.CreatedAt,
	}
	if p.Category != nil {
		out.CategoryName = p.Category.Name
	}
	return out
}

func convertProductsToDTO(products []model.Product) []dto.ProductDTO {
	out := make([]dto.ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, convertProductModelToDTO(&products[i]))
	}
	return out
}

func convertOrderModelToDTO(o *model.Order) dto.OrderDTO {
	out := dto.OrderDTO{
		OrderID:         o.OrderID,
		OrderNumber:     o.OrderNumber(),
		OrderDate:       o.OrderDate,
		Status:          o.Status.String(),
		StatusBadge:     o.Status.BadgeClass(),
		TotalAmount:     o.TotalAmount,
		ShippingFee:     o.ShippingFee,
		TaxAmount:       o.TaxAmount,
		GrandTotal:      o.GrandTotal(),
		ItemCount:       o.ItemCount(),
		ShippingAddress: o.ShippingAddress,
		City:            o.City,
		Email:           o.Email,
		Phone:           o.Phone,
		PaymentMethod:   string(o.PaymentMethod),
		CardLast4Digits: o.CardLast4Digits,
		CardType:        o.CardType,
		ShippedDate:     o.ShippedDate,
		DeliveredDate:   o.DeliveredDate,
	}
	if len(o.OrderDetails) > 0 {
		out.Items = make([]dto.OrderItemDTO, 0, len(o.OrderDetails))
		for i := range o.OrderDetails {
			d := &o.OrderDetails[i]
			out.Items = append(out.Items, dto.OrderItemDTO{
				ProductID:       d.ProductID,
				ProductName:     d.ProductName,
				ProductImageUrl: d.ProductImageUrl,
				UnitPrice:       d.UnitPrice,
				Quantity:        d.Quantity,
				LineTotal:       d.LineTotal(),
			})
		}
	}
	if o.User != nil {
		customer := convertUserModelToDTO(o.User)
		out.Customer = &customer
	}
	return out
}

func convertCartSummaryToDTO(s *model.CartSummary) dto.CartDTO {
	items := make([]dto.CartItemDTO, 0, len(s.Items))
	for i := range s.Items {
		it := &s.Items[i]
		item := dto.CartItemDTO{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal(),
		}
		if p := it.Product; p != nil {
			item.Name = p.Name
			item.ImageUrl = p.ImageUrl
			item.UnitPrice = p.Price
			item.StockQuantity = p.StockQuantity
			item.Available = p.IsActive && p.StockQuantity >= it.Quantity
		}
		items = append(items, item)
	}
	return dto.CartDTO{
		Items:       items,
		ItemCount:   s.ItemCount,
		Subtotal:    s.Subtotal,
		ShippingFee: s.ShippingFee,
		Tax:         s.Tax,
		Total:       s.Total,
	}
}
