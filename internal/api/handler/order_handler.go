package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/api"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

// OrderHandler 會員自己的訂單
type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{orderService: orderService}
}

// @Summary checkout, turn the cart into an order
// @Tags orders
// @Accept json
// @Produce json
// @Param checkout body dto.PlaceOrderDTO true "shipping and payment"
// @Success 201 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 400 {object} api.ResponseError "EmptyCart / InvalidArgument"
// @Failure 409 {object} api.ResponseError "InsufficientStock"
// @Failure 500 {object} api.ResponseError "PersistenceFailure"
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceOrderDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	info := model.ShippingInfo{
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		Email:           req.Email,
		Phone:           req.Phone,
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
		CardNumber:      req.CardNumber,
		CardholderName:  req.CardholderName,
	}
	order, err := h.orderService.PlaceOrder(r.Context(), currentUserID(r), info)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.CreatedJSON(w, convertOrderModelToDTO(order), "Order placed successfully!")
}

// @Summary order history, newest first
// @Tags orders
// @Produce json
// @Param page query int false "page"
// @Success 200 {object} api.Response{data=dto.PageDTO[dto.OrderDTO]} "success"
// @Router /orders [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := h.orderService.ListUserOrders(r.Context(), currentUserID(r), queryInt(r, "page", 1))
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, toPageDTO(page, convertOrderModelToDTO), "")
}

// @Summary order detail, only the owner can see it
// @Tags orders
// @Produce json
// @Param id path int true "order id"
// @Success 200 {object} api.Response{data=dto.OrderDTO} "success"
// @Failure 404 {object} api.ResponseError "NotFound"
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orderService.GetUserOrder(r.Context(), currentUserID(r), id)
	if err != nil {
		api.ErrorJSON(w, err)
		return
	}
	api.SuccessJSON(w, convertOrderModelToDTO(order), "")
}
