package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

// ProductHandler 前台商品瀏覽, 不需登入
type ProductHandler struct {
	productService service.IProductService
}

func NewProductHandler(productService service.IProductService) *ProductHandler {
	if productService == nil {
		panic("productService cannot be nil")
	}
	return &ProductHandler{productService: productService}
}

// @Summary search catalog
// @Tags products
// @Produce json
// @Param category query int false "category id"
// @Param min_price query number false "min price"
// @Param max_price query number false "max price"
// @Param in_stock query bool false "only in stock"
// @Param search query string false "name / description / brand"
// @Param sort query string false "price | name | newest"
// @Param order query string false "asc | desc"
// @Param page query int false "page"
// @Success 200 {object} api.Response{data=dto.PageDTO[dto.ProductDTO]} "success"
// @Failure 400 {object} api.ResponseError "InvalidArgument"
// @Router /products [get]
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := productQueryFromRequest(r)
	page, err := h.productService.Search(r.Context(), q)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, toPageDTO(page, convertProductModelToDTO), "")
}

// @Summary product detail, inactive products are hidden
// @Tags products
// @Produce json
// @Param id path int true "product id"
// @Success 200 {object} api.Response{data=dto.ProductDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetVisibleByID(r.Context(), id)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, convertProductModelToDTO(product), "")
}

// @Summary featured products in stock
// @Tags products
// @Produce json
// @Param count query int false "max items, default 8"
// @Success 200 {object} api.Response{data=[]dto.ProductDTO} "success"
// @Router /products/featured [get]
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", constants.DefaultFeaturedCount)
	if count > constants.MaxPageSize {
		count = constants.MaxPageSize
	}
	products, err := h.productService.GetFeatured(r.Context(), count)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, convertProductsToDTO(products), "")
}

// @Summary active categories with product counts
// @Tags products
// @Produce json
// @Success 200 {object} api.Response{data=[]dto.CategoryDTO} "success"
// @Router /categories [get]
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.ListCategories(r.Context())
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.CategoryDTO{
			CategoryID:   c.CategoryID,
			Name:         c.Name,
			Description:  c.Description,
			IconClass:    c.IconClass,
			DisplayOrder: c.DisplayOrder,
			ProductCount: c.ProductCount,
		})
	}
	api.SuccessJSON(w, out, "")
}
