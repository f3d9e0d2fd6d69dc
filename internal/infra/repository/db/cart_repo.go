package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm/clause"
)

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

// Read - 使用者購物車, 最新加入的在前, 連同目前商品資料
func (s *CartRepo) GetCartItems(ctx context.Context, userID int) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("added_at DESC, cart_item_id DESC").
		Find(&items).Error
	return items, err
}

func (s *CartRepo) GetCartItem(ctx context.Context, userID int, productID int) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, notFound(err, ErrCartItemNotFound)
	}
	return &item, nil
}

func (s *CartRepo) CreateCartItem(ctx context.Context, item *model.CartItem) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

// Update - 只更新數量與更新時間
func (s *CartRepo) UpdateCartItem(ctx context.Context, item *model.CartItem) error {
	res := s.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("cart_item_id = ?", item.CartItemID).
		Updates(map[string]any{"quantity": item.Quantity, "updated_at": item.UpdatedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (s *CartRepo) DeleteCartItem(ctx context.Context, userID int, productID int) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// 清空購物車, 沒有品項不算錯誤
func (s *CartRepo) ClearCart(ctx context.Context, userID int) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}

func (s *CartRepo) CountCartItems(ctx context.Context, userID int) (int, error) {
	var total int
	err := s.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("user_id = ?", userID).
		Row().
		Scan(&total)
	return total, err
}
