package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type ProductDBRepo struct {
	db *DbDao
}

func NewProductDBRepo(db *DbDao) *ProductDBRepo {
	return &ProductDBRepo{db: db}
}

// 後台編輯可以改的欄位, stock_quantity 不在其中
var productEditableColumns = []string{
	"name", "description", "short_description", "price", "image_url",
	"brand", "sku", "is_active", "is_featured", "category_id", "updated_at",
}

func (s *ProductDBRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Omit("Category").Create(product).Error
}

func (s *ProductDBRepo) GetProductByID(ctx context.Context, productID int) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Preload("Category").First(&product, "product_id = ?", productID).Error
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return &product, nil
}

// Update - 更新商品基本資料, 不含庫存
func (s *ProductDBRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	res := s.db.WithContext(ctx).
		Model(product).
		Select(productEditableColumns).
		Omit("Category").
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// 條件套用兩次: 一次算總數, 一次取資料
func (s *ProductDBRepo) applyProductFilters(tx *gorm.DB, q model.ProductQuery) *gorm.DB {
	if !q.IncludeInactive {
		tx = tx.Where("is_active = ?", true)
	}
	if q.CategoryID > 0 {
		tx = tx.Where("category_id = ?", q.CategoryID)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}
	if q.InStockOnly {
		tx = tx.Where("stock_quantity > 0")
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		like := "%" + escapeLike(term) + "%"
		tx = tx.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?)", like, like, like)
	}
	return tx
}

func productOrderBy(sortBy model.ProductSort, desc bool) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	switch sortBy {
	case model.ProductSortPrice:
		return fmt.Sprintf("price %s, product_id", dir)
	case model.ProductSortName:
		return fmt.Sprintf("name %s, product_id", dir)
	case model.ProductSortStock:
		return fmt.Sprintf("stock_quantity %s, product_id", dir)
	case model.ProductSortNewest:
		return "created_at DESC, product_id DESC"
	default:
		return "is_featured DESC, name ASC, product_id"
	}
}

// 根據條件分頁查詢
// 總數在排序與分頁之前計算
func (s *ProductDBRepo) SearchProducts(ctx context.Context, q model.ProductQuery) ([]model.Product, int64, error) {
	var total int64
	err := s.applyProductFilters(s.db.WithContext(ctx).Model(&model.Product{}), q).Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var products []model.Product
	offset := (q.Page - 1) * q.PageSize
	err = s.applyProductFilters(s.db.WithContext(ctx).Model(&model.Product{}), q).
		Preload("Category").
		Order(productOrderBy(q.SortBy, q.SortDesc)).
		Offset(offset).
		Limit(q.PageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Read - 查詢精選且有庫存的商品
func (s *ProductDBRepo) GetFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("is_active = ? AND is_featured = ? AND stock_quantity > 0", true, true).
		Order("created_at DESC, product_id DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// Read - 低於門檻的上架商品, 庫存少的排前面
func (s *ProductDBRepo) GetLowStockProducts(ctx context.Context, threshold int, limit int) ([]model.Product, error) {
	var products []model.Product
	tx := s.db.WithContext(ctx).
		Where("is_active = ? AND stock_quantity < ?", true, threshold).
		Order("stock_quantity ASC, name ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err := tx.Find(&products).Error
	return products, err
}

func (s *ProductDBRepo) CountActiveProducts(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true).Count(&total).Error
	return total, err
}

func (s *ProductDBRepo) CountStockBuckets(ctx context.Context, threshold int) (model.StockBucketCounts, error) {
	var counts model.StockBucketCounts
	err := s.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("is_active = ?", true).
		Select(`COALESCE(SUM(CASE WHEN stock_quantity >= ? THEN 1 ELSE 0 END), 0) AS in_stock,
			COALESCE(SUM(CASE WHEN stock_quantity > 0 AND stock_quantity < ? THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(CASE WHEN stock_quantity <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock`, threshold, threshold).
		Scan(&counts).Error
	return counts, err
}

func (s *ProductDBRepo) HasOrderHistory(ctx context.Context, productID int) (bool, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.OrderDetail{}).Where("product_id = ?", productID).Count(&total).Error
	return total > 0, err
}

// Delete - 軟刪除 (下架)
func (s *ProductDBRepo) DeactivateProduct(ctx context.Context, productID int) error {
	res := s.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("product_id = ?", productID).
		Updates(map[string]any{"is_active": false, "is_featured": false, "updated_at": s.db.NowFunc()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete - 硬刪除商品, 連同購物車中的品項
func (s *ProductDBRepo) HardDeleteProduct(ctx context.Context, productID int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("product_id = ?", productID).Delete(&model.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return nil
	})
}
