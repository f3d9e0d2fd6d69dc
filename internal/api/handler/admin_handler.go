package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

const dateLayout = "2006-01-02"

// AdminHandler 後台商品, 庫存, 訂單管理
type AdminHandler struct {
	productService   service.IProductService
	orderService     service.IOrderService
	dashboardService service.IDashboardService
}

func NewAdminHandler(productService service.IProductService, orderService service.IOrderService, dashboardService service.IDashboardService) *AdminHandler {
	if productService == nil || orderService == nil || dashboardService == nil {
		panic("admin handler services cannot be nil")
	}
	return &AdminHandler{
		productService:   productService,
		orderService:     orderService,
		dashboardService: dashboardService,
	}
}

// @Summary admin dashboard counters
// @Tags admin
// @Produce json
// @Success 200 {object} api.Response{data=dto.DashboardDTO} "success"
// @Failure 403 {object} api.ResponseError "Unauthorized"
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Dashboard(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	byStatus := make(map[string]int64, len(model.AllOrderStatuses))
	for _, s := range model.AllOrderStatuses {
		byStatus[s.String()] = stats.OrdersByStatus[s]
	}
	recent := make([]dto.OrderDTO, 0, len(stats.RecentOrders))
	for i := range stats.RecentOrders {
		recent = append(recent, convertOrderModelToDTO(&stats.RecentOrders[i]))
	}
	api.SuccessJSON(w, dto.DashboardDTO{
		TotalProducts:    stats.TotalProducts,
		TotalOrders:      stats.TotalOrders,
		TotalCustomers:   stats.TotalCustomers,
		TotalRevenue:     stats.TotalRevenue,
		TodayOrders:      stats.TodayOrders,
		TodayRevenue:     stats.TodayRevenue,
		OrdersByStatus:   byStatus,
		LowStockCount:    stats.LowStockCount,
		OutOfStockCount:  stats.OutOfStockCount,
		RecentOrders:     recent,
		LowStockProducts: convertProductsToDTO(stats.LowStockProducts),
	}, "")
}

// @Summary admin product list, includes inactive products
// @Tags admin
// @Produce json
// @Success 200 {object} api.Response{data=dto.PageDTO[dto.ProductDTO]} "success"
// @Router /admin/products [get]
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.productService.AdminSearch(r.Context(), productQueryFromRequest(r))
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, toPageDTO(page, convertProductModelToDTO), "")
}

func productFromRequest(req *dto.ProductRequestDTO) *model.Product {
	p := &model.Product{
		Name:             req.Name,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		StockQuantity:    req.StockQuantity,
		ImageUrl:         req.ImageUrl,
		Brand:            req.Brand,
		SKU:              req.SKU,
		IsActive:         true,
		IsFeatured:       req.IsFeatured,
		CategoryID:       req.CategoryID,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	return p
}

// @Summary create product
// @Tags admin
// @Accept json
// @Produce json
// @Param product body dto.ProductRequestDTO true "product"
// @Success 201 {object} api.Response{data=dto.ProductDTO} "success"
// @Failure 400 {object} api.ResponseError "InvalidArgument"
// @Failure 409 {object} api.ResponseError "Conflict"
// @Router /admin/products [post]
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	product, err := h.productService.Create(r.Context(), productFromRequest(&req))
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.CreatedJSON(w, convertProductModelToDTO(product), "Product created successfully.")
}

// @Summary edit product, stock is not changed here
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param product body dto.ProductRequestDTO true "product"
// @Success 200 {object} api.Response{data=dto.ProductDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Router /admin/products/{id} [put]
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.ProductRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	p := productFromRequest(&req)
	p.ProductID = id
	product, err := h.productService.Update(r.Context(), p)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, convertProductModelToDTO(product), "Product updated successfully.")
}

// @Summary delete product, deactivates instead when it has order history
// @Tags admin
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} api.Response{data=dto.DeleteProductDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Router /admin/products/{id} [delete]
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	outcome, err := h.productService.Delete(r.Context(), id)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, dto.DeleteProductDTO{ProductID: id, Outcome: string(outcome)}, outcome.Message())
}

// @Summary set stock quantity, negative values become 0
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param stock body dto.StockDTO true "new quantity"
// @Success 200 {object} api.Response{data=dto.StockResultDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Router /admin/products/{id}/stock [put]
func (h *AdminHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.StockDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	stock, err := h.productService.UpdateStock(r.Context(), id, req.Quantity)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, stockResult(id, stock), "Stock updated successfully.")
}

// @Summary receive stock
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "product id"
// @Param stock body dto.StockDTO true "received quantity"
// @Success 200 {object} api.Response{data=dto.StockResultDTO} "success"
// @Failure 400 {object} api.ResponseError "InvalidArgument"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Router /admin/products/{id}/restock [post]
func (h *AdminHandler) Restock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.StockDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	stock, err := h.productService.ReceiveStock(r.Context(), id, req.Quantity)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, stockResult(id, stock), "Stock received.")
}

func stockResult(productID, stock int) dto.StockResultDTO {
	return dto.StockResultDTO{
		ProductID:     productID,
		StockQuantity: stock,
		StockLevel:    string(model.ClassifyStock(stock)),
	}
}

// @Summary inventory page, bucket counts and products ordered by stock
// @Tags admin
// @Produce json
// @Success 200 {object} api.Response{data=dto.InventoryDTO} "success"
// @Router /admin/inventory [get]
func (h *AdminHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	counts, err := h.productService.StockBucketCounts(ctx)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	q := productQueryFromRequest(r)
	if q.SortBy == model.ProductSortDefault {
		q.SortBy = model.ProductSortStock
	}
	page, err := h.productService.AdminSearch(ctx, q)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, dto.InventoryDTO{
		InStock:    counts.InStock,
		LowStock:   counts.LowStock,
		OutOfStock: counts.OutOfStock,
		Products:   toPageDTO(page, convertProductModelToDTO),
	}, "")
}

// to 為包含當天, 轉成隔天 00:00 的開區間
func parseDateRange(r *http.Request) (*time.Time, *time.Time, bool) {
	var from, to *time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, nil, false
		}
		from = &t
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, nil, false
		}
		t = t.AddDate(0, 0, 1)
		to = &t
	}
	return from, to, true
}

// @Summary admin order list
// @Tags admin
// @Produce json
// @Param status query string false "order status"
// @Param user query int false "user id"
// @Param from query string false "yyyy-mm-dd"
// @Param to query string false "yyyy-mm-dd, inclusive"
// @Param page query int false "page"
// @Success 200 {object} api.Response{data=dto.PageDTO[dto.OrderDTO]} "success"
// @Failure 400 {object} api.ResponseError "InvalidStatus"
// @Router /admin/orders [get]
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parseDateRange(r)
	if !ok {
		api.BadRequest(w, "Invalid date, expected yyyy-mm-dd.")
		return
	}
	page, err := h.orderService.ListOrders(r.Context(), model.OrderQuery{
		UserID:   queryInt(r, "user", 0),
		Status:   model.OrderStatus(r.URL.Query().Get("status")),
		From:     from,
		To:       to,
		Page:     queryInt(r, "page", 1),
	})
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, toPageDTO(page, convertOrderModelToDTO), "")
}

// @Summary admin order detail
// @Tags admin
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Router /admin/orders/{id} [get]
func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, convertOrderModelToDTO(order), "")
}

// @Summary change order status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "order id"
// @Param status body dto.UpdateOrderStatusDTO true "new status"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 400 {object} api.ResponseError "InvalidStatus"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Router /admin/orders/{id}/status [put]
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, convertOrderModelToDTO(order), "Order status updated successfully.")
}
