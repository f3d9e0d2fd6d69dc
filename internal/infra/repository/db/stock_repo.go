package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepo 只處理 products.stock_quantity
// 呼叫端為 inventory, 其他地方不應直接寫庫存
type StockRepo struct {
	db *DbDao
}

func NewStockRepo(db *DbDao) *StockRepo {
	return &StockRepo{db: db}
}

func (s *StockRepo) GetStock(ctx context.Context, productID int) (int, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Select("product_id", "stock_quantity").First(&product, "product_id = ?", productID).Error
	if err != nil {
		return 0, notFound(err, ErrProductNotFound)
	}
	return product.StockQuantity, nil
}

// DecrementStock 條件式扣減
// UPDATE ... WHERE stock_quantity >= ? 沒有更新到任何列即庫存不足
func (s *StockRepo) DecrementStock(ctx context.Context, productID int, quantity int) error {
	res := s.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("product_id = ? AND stock_quantity >= ?", productID, quantity).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"updated_at":     s.db.NowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetStock(ctx, productID); err != nil {
			return err
		}
		return ErrStockNotEnough
	}
	return nil
}

func (s *StockRepo) IncrementStock(ctx context.Context, productID int, quantity int) (int, error) {
	var product model.Product
	res := s.db.WithContext(ctx).
		Model(&product).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "stock_quantity"}}}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"updated_at":     s.db.NowFunc(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrProductNotFound
	}
	return product.StockQuantity, nil
}

func (s *StockRepo) SetStock(ctx context.Context, productID int, quantity int) error {
	res := s.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{
			"stock_quantity": quantity,
			"updated_at":     s.db.NowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
