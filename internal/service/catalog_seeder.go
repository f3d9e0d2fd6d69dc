package service

import (
	"context"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SeedCatalog 資料庫沒有任何分類時匯入初始目錄, 回傳是否有匯入
// 全部在同一個 transaction, 任一筆失敗整批 rollback
func SeedCatalog(ctx context.Context, store db.UnifiedDB, seed *config.CatalogSeed) (bool, error) {
	if seed == nil {
		return false, nil
	}
	existing, err := store.ListCategories(ctx, false)
	if err != nil {
		return false, fmt.Errorf("list categories: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	err = store.Transaction(ctx, func(tx db.UnifiedDB) error {
		ids := make(map[string]int, len(seed.Categories))
		for _, c := range seed.Categories {
			category := &model.Category{
				Name:         c.Name,
				Description:  c.Description,
				IconClass:    c.IconClass,
				DisplayOrder: c.DisplayOrder,
				IsActive:     true,
			}
			if err := tx.CreateCategory(ctx, category); err != nil {
				return fmt.Errorf("create category %q: %w", c.Name, err)
			}
			ids[c.Name] = category.CategoryID
		}

		for _, p := range seed.Products {
			price, err := decimal.NewFromString(p.Price)
			if err != nil {
				return fmt.Errorf("product %q price: %w", p.Name, err)
			}
			product := &model.Product{
				Name:             p.Name,
				Description:      p.Description,
				ShortDescription: p.ShortDescription,
				Price:            price.Round(2),
				StockQuantity:    p.Stock,
				ImageUrl:         p.ImageUrl,
				Brand:            p.Brand,
				SKU:              p.SKU,
				IsActive:         true,
				IsFeatured:       p.Featured,
				CategoryID:       ids[p.Category],
			}
			if err := tx.CreateProduct(ctx, product); err != nil {
				return fmt.Errorf("create product %q: %w", p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	log.Info().Int("categories", len(seed.Categories)).Int("products", len(seed.Products)).Msg("catalog seeded")
	return true, nil
}
