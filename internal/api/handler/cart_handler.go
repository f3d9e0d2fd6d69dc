package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) writeCart(w http.ResponseWriter, r *http.Request, message string) {
	summary, err := h.cartService.GetCartSummary(r.Context(), currentUserID(r))
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, convertCartSummaryToDTO(summary), message)
}

// @Summary get cart with totals
// @Tags cart
// @Produce json
// @Success 200 {object} api.Response{data=dto.CartDTO} "success"
// @Failure 401 {object} api.ResponseError "Unauthenticated"
// @Router /cart [get]
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, "")
}

// @Summary cart badge count
// @Tags cart
// @Produce json
// @Success 200 {object} api.Response{data=dto.CartCountDTO} "success"
// @Router /cart/count [get]
func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.cartService.ItemCount(r.Context(), currentUserID(r))
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, dto.CartCountDTO{Count: count}, "")
}

// @Summary add product to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param item body dto.AddCartItemDTO true "product and quantity"
// @Success 200 {object} api.Response{data=dto.CartDTO} "success"
// @Failure 400 {object} api.ResponseError "InvalidArgument"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Failure 409 {object} api.ResponseError "OutOfStock / InsufficientStock"
// @Router /cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		api.BadRequest(w, msgInvalidID)
		return
	}
	if err := h.cartService.AddItem(r.Context(), currentUserID(r), req.ProductID, req.Quantity); err != nil {
		api.ErrorJSON(w, err)
		return
	}
	h.writeCart(w, r, "Product added to cart.")
}

// @Summary update cart item quantity, 0 removes the item
// @Tags cart
// @Accept json
// @Produce json
// @Param productID path int true "product id"
// @Param item body dto.UpdateCartItemDTO true "quantity"
// @Success 200 {object} api.Response{data=dto.CartDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Failure 409 {object} api.ResponseError "InsufficientStock"
// @Router /cart/items/{productID} [put]
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	var req dto.UpdateCartItemDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.cartService.UpdateQuantity(r.Context(), currentUserID(r), productID, req.Quantity); err != nil {
		api.ErrorJSON(w, err)
		return
	}
	h.writeCart(w, r, "Cart updated.")
}

// @Summary remove cart item
// @Tags cart
// @Produce json
// @Param productID path int true "product id"
// @Success 200 {object} api.Response{data=dto.CartDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Router /cart/items/{productID} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "productID")
	if !ok {
		return
	}
	if err := h.cartService.RemoveItem(r.Context(), currentUserID(r), productID); err != nil {
		api.ErrorJSON(w, err)
		return
	}
	h.writeCart(w, r, "Item removed from cart.")
}

// @Summary clear cart
// @Tags cart
// @Produce json
// @Success 200 {object} api.Response{data=dto.CartDTO} "success"
// @Router /cart [delete]
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cartService.Clear(r.Context(), currentUserID(r)); err != nil {
		api.ErrorJSON(w, err)
		return
	}
	h.writeCart(w, r, "Cart cleared.")
}
