package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type CategoryRepo struct {
	db *DbDao
}

func NewCategoryRepo(db *DbDao) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (s *CategoryRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	return s.db.WithContext(ctx).Create(category).Error
}

func (s *CategoryRepo) GetCategoryByID(ctx context.Context, categoryID int) (*model.Category, error) {
	var category model.Category
	err := s.db.WithContext(ctx).First(&category, "category_id = ?", categoryID).Error
	if err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	return &category, nil
}

// 分類與上架商品數, 依 display_order 排序
func (s *CategoryRepo) ListCategories(ctx context.Context, activeOnly bool) ([]model.CategoryWithCount, error) {
	var rows []model.CategoryWithCount
	tx := s.db.WithContext(ctx).
		Model(&model.Category{}).
		Select("categories.*, COUNT(products.product_id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.category_id AND products.is_active = ?", true).
		Group("categories.category_id").
		Order("categories.display_order ASC, categories.name ASC")
	if activeOnly {
		tx = tx.Where("categories.is_active = ?", true)
	}
	err := tx.Scan(&rows).Error
	return rows, err
}
