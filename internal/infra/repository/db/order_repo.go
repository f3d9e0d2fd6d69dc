package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 訂單與明細一次寫入, 明細之後不再異動
type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單, OrderDetails 一併寫入
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Omit("User").Create(order).Error
}

// Read - 根據ID查詢訂單
func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID int) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderDetails").
		Preload("User").
		First(&order, "order_id = ?", orderID).Error
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return &order, nil
}

// Read - 只回傳屬於該使用者的訂單
func (s *OrderRepo) GetUserOrder(ctx context.Context, userID int, orderID int) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderDetails").
		Where("order_id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return &order, nil
}

func applyOrderFilters(tx *gorm.DB, q model.OrderQuery) *gorm.DB {
	if q.UserID > 0 {
		tx = tx.Where("user_id = ?", q.UserID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.From != nil {
		tx = tx.Where("order_date >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("order_date < ?", *q.To)
	}
	return tx
}

// 根據條件分頁查詢, 新訂單在前
func (s *OrderRepo) ListOrders(ctx context.Context, q model.OrderQuery) ([]model.Order, int64, error) {
	var total int64
	if err := applyOrderFilters(s.db.WithContext(ctx).Model(&model.Order{}), q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	offset := (q.Page - 1) * q.PageSize
	err := applyOrderFilters(s.db.WithContext(ctx).Model(&model.Order{}), q).
		Preload("OrderDetails").
		Preload("User").
		Order("order_date DESC, order_id DESC").
		Offset(offset).
		Limit(q.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrderRepo) GetRecentOrders(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderDetails").
		Preload("User").
		Order("order_date DESC, order_id DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// Update - 更新訂單狀態與出貨/送達日期
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, order *model.Order) error {
	res := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_id = ?", order.OrderID).
		Updates(map[string]any{
			"status":         order.Status,
			"shipped_date":   order.ShippedDate,
			"delivered_date": order.DeliveredDate,
			"updated_at":     s.db.NowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *OrderRepo) CountOrdersByStatus(ctx context.Context) (map[model.OrderStatus]int64, error) {
	var rows []struct {
		Status model.OrderStatus
		Count  int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(model.AllOrderStatuses))
	for _, st := range model.AllOrderStatuses {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (s *OrderRepo) CountOrders(ctx context.Context, since *time.Time) (int64, error) {
	var total int64
	tx := s.db.WithContext(ctx).Model(&model.Order{})
	if since != nil {
		tx = tx.Where("order_date >= ?", *since)
	}
	err := tx.Count(&total).Error
	return total, err
}

// 營收以實付金額計算, 不含已取消訂單
func (s *OrderRepo) SumRevenue(ctx context.Context, since *time.Time) (decimal.Decimal, error) {
	tx := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount + shipping_fee + tax_amount), 0)").
		Where("status <> ?", model.OrderStatusCancelled)
	if since != nil {
		tx = tx.Where("order_date >= ?", *since)
	}

	var total decimal.Decimal
	if err := tx.Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
