package service

import (
	"context"
	"errors"
	"reflect"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	msgQuantityTooSmall = "Quantity must be at least 1."
	msgProductNotFound  = "Product not found."
	msgOutOfStock       = "This product is out of stock."
	msgOnlyNAvailable   = "Only %d items available in stock."
	msgCartItemNotFound = "Item not found in cart."
)

type ICartService interface {
	// AddItem 加入購物車, 已存在的品項合併數量
	//
	// 錯誤:
	//   - apperr.InvalidArgument: 數量小於 1
	//   - apperr.NotFound: 商品不存在或已下架
	//   - apperr.OutOfStock: 商品庫存為 0
	//   - apperr.InsufficientStock: 合併後數量超過庫存
	AddItem(ctx context.Context, userID int, productID int, quantity int) error
	// UpdateQuantity 數量 <= 0 等同移除
	//
	// 錯誤:
	//   - apperr.NotFound: 購物車沒有此品項, 或商品不存在
	//   - apperr.InsufficientStock: 數量超過庫存
	UpdateQuantity(ctx context.Context, userID int, productID int, quantity int) error
	RemoveItem(ctx context.Context, userID int, productID int) error
	Clear(ctx context.Context, userID int) error
	GetCart(ctx context.Context, userID int) ([]model.CartItem, error)
	GetCartSummary(ctx context.Context, userID int) (*model.CartSummary, error)
	ItemCount(ctx context.Context, userID int) (int, error)
	// ValidateStock 每個品項的商品都存在, 上架中且庫存足夠才回傳 true
	ValidateStock(ctx context.Context, userID int) (bool, error)
}

type CartService struct {
	store   db.UnifiedDB
	pricing model.PricingSource
	now     Clock
}

func NewCartService(store db.UnifiedDB, pricing model.PricingSource) *CartService {
	if store == nil || reflect.ValueOf(store).IsNil() {
		panic("cart service initialization failed: store cannot be nil")
	}
	if pricing == nil {
		pricing = model.DefaultPricing()
	}
	return &CartService{store: store, pricing: pricing, now: utcNow}
}

// 庫存判斷直接讀 db, 不走商品快取
func (s *CartService) loadActiveProduct(ctx context.Context, productID int) (*model.Product, error) {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, apperr.New(apperr.NotFound, msgProductNotFound)
		}
		return nil, persistErr("load product failed", err)
	}
	if !product.IsActive {
		return nil, apperr.New(apperr.NotFound, msgProductNotFound)
	}
	return product, nil
}

func (s *CartService) AddItem(ctx context.Context, userID int, productID int, quantity int) error {
	if quantity <= 0 {
		return apperr.New(apperr.InvalidArgument, msgQuantityTooSmall)
	}

	product, err := s.loadActiveProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.StockQuantity <= 0 {
		return apperr.New(apperr.OutOfStock, msgOutOfStock)
	}

	existing, err := s.store.GetCartItem(ctx, userID, productID)
	if err != nil && !errors.Is(err, db.ErrCartItemNotFound) {
		return persistErr("load cart item failed", err)
	}

	current := 0
	if existing != nil {
		current = existing.Quantity
	}
	if current+quantity > product.StockQuantity {
		return apperr.Newf(apperr.InsufficientStock, msgOnlyNAvailable, product.StockQuantity)
	}

	now := s.now()
	if existing != nil {
		existing.Quantity = current + quantity
		existing.UpdatedAt = now
		if err := s.store.UpdateCartItem(ctx, existing); err != nil {
			return persistErr("update cart item failed", err)
		}
		return nil
	}

	item := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCartItem(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Wrap(apperr.Conflict, "Cart was updated by another request, please try again.", err)
		}
		return persistErr("create cart item failed", err)
	}
	log.Debug().Int("user_id", userID).Int("product_id", productID).Int("quantity", quantity).Msg("cart item added")
	return nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID int, productID int, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	item, err := s.store.GetCartItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, db.ErrCartItemNotFound) {
			return apperr.New(apperr.NotFound, msgCartItemNotFound)
		}
		return persistErr("load cart item failed", err)
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return apperr.New(apperr.NotFound, msgProductNotFound)
		}
		return persistErr("load product failed", err)
	}
	if quantity > product.StockQuantity {
		return apperr.Newf(apperr.InsufficientStock, msgOnlyNAvailable, product.StockQuantity)
	}

	item.Quantity = quantity
	item.UpdatedAt = s.now()
	if err := s.store.UpdateCartItem(ctx, item); err != nil {
		if errors.Is(err, db.ErrCartItemNotFound) {
			return apperr.New(apperr.NotFound, msgCartItemNotFound)
		}
		return persistErr("update cart item failed", err)
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID int, productID int) error {
	if err := s.store.DeleteCartItem(ctx, userID, productID); err != nil {
		if errors.Is(err, db.ErrCartItemNotFound) {
			return apperr.New(apperr.NotFound, msgCartItemNotFound)
		}
		return persistErr("delete cart item failed", err)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID int) error {
	if err := s.store.ClearCart(ctx, userID); err != nil {
		return persistErr("clear cart failed", err)
	}
	return nil
}

func (s *CartService) GetCart(ctx context.Context, userID int) ([]model.CartItem, error) {
	items, err := s.store.GetCartItems(ctx, userID)
	if err != nil {
		return nil, persistErr("load cart failed", err)
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items, nil
}

func (s *CartService) GetCartSummary(ctx context.Context, userID int) (*model.CartSummary, error) {
	items, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := s.pricing.CurrentPricing().Summarize(items)
	return &summary, nil
}

func (s *CartService) ItemCount(ctx context.Context, userID int) (int, error) {
	count, err := s.store.CountCartItems(ctx, userID)
	if err != nil {
		return 0, persistErr("count cart items failed", err)
	}
	return count, nil
}

func (s *CartService) ValidateStock(ctx context.Context, userID int) (bool, error) {
	items, err := s.GetCart(ctx, userID)
	if err != nil {
		return false, err
	}
	return firstUnavailable(items) == nil, nil
}

// firstUnavailable 回傳第一個商品不存在, 已下架或庫存不足的品項
func firstUnavailable(items []model.CartItem) *model.CartItem {
	for i := range items {
		p := items[i].Product
		if p == nil || !p.IsActive || p.StockQuantity < items[i].Quantity {
			return &items[i]
		}
	}
	return nil
}

var _ ICartService = (*CartService)(nil)
