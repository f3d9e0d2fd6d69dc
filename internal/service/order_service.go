package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model/event"
	"github.com/RoyceAzure/lab/storefront/internal/infra/inventory"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/rs/zerolog/log"
)

const (
	msgEmptyCart        = "Your cart is empty."
	msgInsufficientFor  = "Insufficient stock for %s"
	msgNoLongerOnSale   = "%s is no longer available."
	msgOrderNotFound    = "Order not found."
	msgInvalidStatus    = "Invalid order status."
	msgOrderSaveFailure = "Could not place the order. Please try again."
)

type IOrderService interface {
	// PlaceOrder 將購物車轉成訂單
	//
	// 流程:
	//  1. 驗證寄送與付款資料
	//  2. 讀取購物車, 空的回傳 EmptyCart
	//  3. 檢查每個品項的庫存, 第一個不足的商品回傳 InsufficientStock, 不做任何寫入
	//  4. 同一個 transaction 內扣庫存, 寫入訂單與明細, 清空購物車
	//  5. commit 後清商品快取, 發送 OrderPlaced 事件
	//
	// 錯誤:
	//   - apperr.InvalidArgument: 寄送或付款資料不正確
	//   - apperr.EmptyCart: 購物車沒有品項
	//   - apperr.InsufficientStock: 商品不存在或庫存不足, 訊息帶商品名稱
	//   - apperr.PersistenceFailure: 寫入失敗, 全部 rollback
	PlaceOrder(ctx context.Context, userID int, info model.ShippingInfo) (*model.Order, error)
	// UpdateStatus 任何合法狀態之間都可轉換
	//
	// 錯誤:
	//   - apperr.InvalidStatus: 不認得的狀態, 訂單不變
	//   - apperr.NotFound: 訂單不存在
	UpdateStatus(ctx context.Context, orderID int, status string) (*model.Order, error)
	// GetByID 含明細與下單者
	GetByID(ctx context.Context, orderID int) (*model.Order, error)
	// GetUserOrder 訂單不屬於該使用者時回傳 NotFound
	GetUserOrder(ctx context.Context, userID int, orderID int) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID int, page int) (model.Page[model.Order], error)
	ListOrders(ctx context.Context, q model.OrderQuery) (model.Page[model.Order], error)
	RecentOrders(ctx context.Context, count int) ([]model.Order, error)
}

type OrderService struct {
	store     db.UnifiedDB
	inventory *inventory.Inventory
	producer  producer.IOrderEventProducer
	cache     redis_decorator.ProductCacheInvalidator
	pricing   model.PricingSource
	now       Clock
}

func NewOrderService(store db.UnifiedDB, inv *inventory.Inventory, eventProducer producer.IOrderEventProducer, cache redis_decorator.ProductCacheInvalidator, pricing model.PricingSource) *OrderService {
	if store == nil || reflect.ValueOf(store).IsNil() {
		panic("order service initialization failed: store cannot be nil")
	}
	if inv == nil {
		panic("order service initialization failed: inventory cannot be nil")
	}
	if eventProducer == nil {
		eventProducer = producer.NoopOrderEventProducer{}
	}
	if cache == nil {
		cache = redis_decorator.NoopInvalidator{}
	}
	if pricing == nil {
		pricing = model.DefaultPricing()
	}
	return &OrderService{
		store:     store,
		inventory: inv,
		producer:  eventProducer,
		cache:     cache,
		pricing:   pricing,
		now:       utcNow,
	}
}

func (s *OrderService) PlaceOrder(ctx context.Context, userID int, info model.ShippingInfo) (*model.Order, error) {
	info.Normalize()
	if err := info.Validate(); err != nil {
		return nil, err
	}

	items, err := s.store.GetCartItems(ctx, userID)
	if err != nil {
		return nil, persistErr("load cart failed", err)
	}
	if len(items) == 0 {
		return nil, apperr.New(apperr.EmptyCart, msgEmptyCart)
	}

	// 先全部檢查, 有任何一項不足就不寫入
	if bad := firstUnavailable(items); bad != nil {
		return nil, unavailableError(bad)
	}

	order := model.NewOrderFromCart(userID, items, info, s.pricing.CurrentPricing(), s.now())
	reservations := make([]inventory.Reservation, len(items))
	for i := range items {
		reservations[i] = inventory.Reservation{ProductID: items[i].ProductID, Quantity: items[i].Quantity}
	}

	err = s.store.Transaction(ctx, func(tx db.UnifiedDB) error {
		if err := s.inventory.ReserveAll(ctx, tx, reservations); err != nil {
			var shortage *inventory.ShortageError
			if errors.As(err, &shortage) {
				return apperr.Wrap(apperr.InsufficientStock, fmt.Sprintf(msgInsufficientFor, itemNameByID(items, shortage.ProductID)), err)
			}
			return err
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		return tx.ClearCart(ctx, userID)
	})
	if err != nil {
		if apperr.IsKind(err, apperr.InsufficientStock) {
			return nil, err
		}
		return nil, persistErr(msgOrderSaveFailure, err)
	}

	productIDs := make([]int, len(items))
	for i := range items {
		productIDs[i] = items[i].ProductID
	}
	if err := s.cache.InvalidateProducts(ctx, productIDs...); err != nil {
		log.Warn().Err(err).Ints("product_ids", productIDs).Msg("invalidate product cache failed")
	}

	log.Info().
		Int("order_id", order.OrderID).
		Int("user_id", userID).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order placed")

	if err := s.producer.PublishOrderPlaced(ctx, event.NewOrderPlacedEvent(order, s.now())); err != nil {
		log.Error().Err(err).Int("order_id", order.OrderID).Msg("publish order placed event failed")
	}
	return order, nil
}

func cartItemName(item *model.CartItem) string {
	if item.Product != nil && item.Product.Name != "" {
		return item.Product.Name
	}
	return "this product"
}

func itemNameByID(items []model.CartItem, productID int) string {
	for i := range items {
		if items[i].ProductID == productID {
			return cartItemName(&items[i])
		}
	}
	return "this product"
}

// 已下架回 NotFound, 商品不存在或數量不足是 InsufficientStock
func unavailableError(item *model.CartItem) error {
	if item.Product != nil && !item.Product.IsActive {
		return apperr.Newf(apperr.NotFound, msgNoLongerOnSale, cartItemName(item))
	}
	return apperr.Newf(apperr.InsufficientStock, msgInsufficientFor, cartItemName(item))
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int, status string) (*model.Order, error) {
	target, ok := model.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.New(apperr.InvalidStatus, msgInvalidStatus)
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFound, msgOrderNotFound)
		}
		return nil, persistErr("load order failed", err)
	}

	from := order.Status
	if err := order.TransitionTo(target, s.now()); err != nil {
		return nil, apperr.Wrap(apperr.InvalidStatus, msgInvalidStatus, err)
	}
	if err := s.store.UpdateOrderStatus(ctx, order); err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFound, msgOrderNotFound)
		}
		return nil, persistErr("update order status failed", err)
	}

	log.Info().Int("order_id", orderID).Str("from", string(from)).Str("to", string(target)).Msg("order status updated")
	if err := s.producer.PublishOrderStatusChanged(ctx, event.NewOrderStatusChangedEvent(order, from, s.now())); err != nil {
		log.Error().Err(err).Int("order_id", orderID).Msg("publish order status changed event failed")
	}
	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID int) (*model.Order, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFound, msgOrderNotFound)
		}
		return nil, persistErr("load order failed", err)
	}
	return order, nil
}

func (s *OrderService) GetUserOrder(ctx context.Context, userID int, orderID int) (*model.Order, error) {
	order, err := s.store.GetUserOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, db.ErrOrderNotFound) {
			return nil, apperr.New(apperr.NotFound, msgOrderNotFound)
		}
		return nil, persistErr("load order failed", err)
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID int, page int) (model.Page[model.Order], error) {
	q := model.OrderQuery{UserID: userID, Page: page}
	q.Normalize(constants.OrderHistoryPageSize)
	return s.list(ctx, q)
}

func (s *OrderService) ListOrders(ctx context.Context, q model.OrderQuery) (model.Page[model.Order], error) {
	if q.Status != "" {
		status, ok := model.ParseOrderStatus(string(q.Status))
		if !ok {
			return model.Page[model.Order]{}, apperr.New(apperr.InvalidStatus, msgInvalidStatus)
		}
		q.Status = status
	}
	q.PageSize = constants.AdminPageSize
	q.Normalize(constants.AdminPageSize)
	return s.list(ctx, q)
}

func (s *OrderService) list(ctx context.Context, q model.OrderQuery) (model.Page[model.Order], error) {
	orders, total, err := s.store.ListOrders(ctx, q)
	if err != nil {
		return model.Page[model.Order]{}, persistErr("list orders failed", err)
	}
	return model.NewPage(orders, total, q.Page, q.PageSize), nil
}

func (s *OrderService) RecentOrders(ctx context.Context, count int) ([]model.Order, error) {
	if count <= 0 {
		count = constants.DefaultRecentOrders
	}
	orders, err := s.store.GetRecentOrders(ctx, count)
	if err != nil {
		return nil, persistErr("load recent orders failed", err)
	}
	return orders, nil
}

var _ IOrderService = (*OrderService)(nil)
