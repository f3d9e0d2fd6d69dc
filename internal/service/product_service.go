package service

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/inventory"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/apperr"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type IProductService interface {
	// Search 前台商品列表, 只含上架商品, 每頁 12 筆
	Search(ctx context.Context, q model.ProductQuery) (model.Page[model.Product], error)
	// AdminSearch 後台商品列表, 包含下架商品, 每頁 20 筆
	AdminSearch(ctx context.Context, q model.ProductQuery) (model.Page[model.Product], error)
	GetByID(ctx context.Context, productID int) (*model.Product, error)
	// GetVisibleByID 已下架視為不存在
	GetVisibleByID(ctx context.Context, productID int) (*model.Product, error)
	GetFeatured(ctx context.Context, count int) ([]model.Product, error)
	GetLowStock(ctx context.Context, threshold int, limit int) ([]model.Product, error)
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	// UpdateStock 直接設定庫存, 負數視為 0
	//
	// 錯誤:
	//   - apperr.NotFound: 商品不存在
	UpdateStock(ctx context.Context, productID int, quantity int) (int, error)
	// ReceiveStock 進貨, 回傳新庫存
	ReceiveStock(ctx context.Context, productID int, quantity int) (int, error)
	// Delete 有訂單紀錄只下架, 否則刪除
	Delete(ctx context.Context, productID int) (model.DeleteOutcome, error)
	ListCategories(ctx context.Context) ([]model.CategoryWithCount, error)
	StockBucketCounts(ctx context.Context) (model.StockBucketCounts, error)
	CountActive(ctx context.Context) (int64, error)
}

type ProductService struct {
	store     db.UnifiedDB
	products  db.IProductRepository
	inventory *inventory.Inventory
	cache     redis_decorator.ProductCacheInvalidator
}

// NewProductService products 可以是 cache aside 包裝過的 repo, 為 nil 時直接用 store
func NewProductService(store db.UnifiedDB, products db.IProductRepository, inv *inventory.Inventory, cache redis_decorator.ProductCacheInvalidator) *ProductService {
	if store == nil || reflect.ValueOf(store).IsNil() {
		panic("product service initialization failed: store cannot be nil")
	}
	if inv == nil {
		panic("product service initialization failed: inventory cannot be nil")
	}
	if products == nil {
		products = store
	}
	if cache == nil {
		cache = redis_decorator.NoopInvalidator{}
	}
	return &ProductService{store: store, products: products, inventory: inv, cache: cache}
}

func (s *ProductService) Search(ctx context.Context, q model.ProductQuery) (model.Page[model.Product], error) {
	q.IncludeInactive = false
	// 前台固定每頁 12 筆, 後台 20 筆
	q.PageSize = constants.CatalogPageSize
	q.Normalize(constants.CatalogPageSize)
	return s.search(ctx, q)
}

func (s *ProductService) AdminSearch(ctx context.Context, q model.ProductQuery) (model.Page[model.Product], error) {
	q.IncludeInactive = true
	q.PageSize = constants.AdminPageSize
	q.Normalize(constants.AdminPageSize)
	return s.search(ctx, q)
}

func (s *ProductService) search(ctx context.Context, q model.ProductQuery) (model.Page[model.Product], error) {
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return model.Page[model.Product]{}, apperr.New(apperr.InvalidArgument, "Minimum price cannot exceed maximum price.")
	}
	products, total, err := s.store.SearchProducts(ctx, q)
	if err != nil {
		return model.Page[model.Product]{}, persistErr("search products failed", err)
	}
	return model.NewPage(products, total, q.Page, q.PageSize), nil
}

func (s *ProductService) GetByID(ctx context.Context, productID int) (*model.Product, error) {
	product, err := s.products.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, apperr.New(apperr.NotFound, msgProductNotFound)
		}
		return nil, persistErr("load product failed", err)
	}
	return product, nil
}

func (s *ProductService) GetVisibleByID(ctx context.Context, productID int) (*model.Product, error) {
	product, err := s.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, apperr.New(apperr.NotFound, msgProductNotFound)
	}
	return product, nil
}

func (s *ProductService) GetFeatured(ctx context.Context, count int) ([]model.Product, error) {
	if count <= 0 {
		count = constants.DefaultFeaturedCount
	}
	products, err := s.store.GetFeaturedProducts(ctx, count)
	if err != nil {
		return nil, persistErr("load featured products failed", err)
	}
	return products, nil
}

func (s *ProductService) GetLowStock(ctx context.Context, threshold int, limit int) ([]model.Product, error) {
	if threshold <= 0 {
		threshold = constants.LowStockThreshold
	}
	products, err := s.store.GetLowStockProducts(ctx, threshold, limit)
	if err != nil {
		return nil, persistErr("load low stock products failed", err)
	}
	return products, nil
}

func validateProduct(p *model.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.SKU = strings.TrimSpace(p.SKU)
	p.Brand = strings.TrimSpace(p.Brand)
	switch {
	case p.Name == "":
		return apperr.New(apperr.InvalidArgument, "Product name is required.")
	case model.ExceedsLength(p.Name, model.MaxProductNameLength):
		return apperr.Newf(apperr.InvalidArgument, "Product name cannot exceed %d characters.", model.MaxProductNameLength)
	case model.ExceedsLength(p.ShortDescription, model.MaxShortDescriptionLength):
		return apperr.Newf(apperr.InvalidArgument, "Short description cannot exceed %d characters.", model.MaxShortDescriptionLength)
	case model.ExceedsLength(p.ImageUrl, model.MaxImageUrlLength):
		return apperr.Newf(apperr.InvalidArgument, "Image URL cannot exceed %d characters.", model.MaxImageUrlLength)
	case model.ExceedsLength(p.Brand, model.MaxBrandLength):
		return apperr.Newf(apperr.InvalidArgument, "Brand cannot exceed %d characters.", model.MaxBrandLength)
	case model.ExceedsLength(p.SKU, model.MaxSKULength):
		return apperr.Newf(apperr.InvalidArgument, "SKU cannot exceed %d characters.", model.MaxSKULength)
	case p.Price.IsNegative():
		return apperr.New(apperr.InvalidArgument, "Price cannot be negative.")
	case p.Price.Round(2).GreaterThan(model.MaxPrice):
		return apperr.New(apperr.InvalidArgument, "Price is too large.")
	case p.StockQuantity < 0:
		return apperr.New(apperr.InvalidArgument, "Stock quantity cannot be negative.")
	case p.CategoryID <= 0:
		return apperr.New(apperr.InvalidArgument, "Please select a category.")
	}
	p.Price = p.Price.Round(2)
	return nil
}

func (s *ProductService) ensureCategory(ctx context.Context, categoryID int) error {
	if _, err := s.store.GetCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, db.ErrCategoryNotFound) {
			return apperr.New(apperr.InvalidArgument, "Category not found.")
		}
		return persistErr("load category failed", err)
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	product.ProductID = 0
	product.Category = nil
	if err := s.products.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Wrap(apperr.Conflict, "A product with this SKU already exists.", err)
		}
		return nil, persistErr("create product failed", err)
	}
	log.Info().Int("product_id", product.ProductID).Str("name", product.Name).Msg("product created")
	return product, nil
}

// Update 不會修改庫存, 庫存走 UpdateStock
func (s *ProductService) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	product.Category = nil
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, apperr.New(apperr.NotFound, msgProductNotFound)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Wrap(apperr.Conflict, "A product with this SKU already exists.", err)
		}
		return nil, persistErr("update product failed", err)
	}
	s.invalidate(ctx, product.ProductID)
	// 直接讀 db, 快取刪除失敗時也回傳已提交的內容
	updated, err := s.store.GetProductByID(ctx, product.ProductID)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, apperr.New(apperr.NotFound, msgProductNotFound)
		}
		return nil, persistErr("load product failed", err)
	}
	return updated, nil
}

func (s *ProductService) UpdateStock(ctx context.Context, productID int, quantity int) (int, error) {
	stock, err := s.inventory.SetQuantity(ctx, s.store, productID, quantity)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return 0, apperr.New(apperr.NotFound, msgProductNotFound)
		}
		return 0, persistErr("update stock failed", err)
	}
	s.invalidate(ctx, productID)
	log.Info().Int("product_id", productID).Int("stock", stock).Msg("stock updated")
	return stock, nil
}

func (s *ProductService) ReceiveStock(ctx context.Context, productID int, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, apperr.New(apperr.InvalidArgument, msgQuantityTooSmall)
	}
	stock, err := s.inventory.Release(ctx, s.store, productID, quantity)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return 0, apperr.New(apperr.NotFound, msgProductNotFound)
		}
		return 0, persistErr("receive stock failed", err)
	}
	s.invalidate(ctx, productID)
	return stock, nil
}

func (s *ProductService) Delete(ctx context.Context, productID int) (model.DeleteOutcome, error) {
	if _, err := s.store.GetProductByID(ctx, productID); err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return "", apperr.New(apperr.NotFound, msgProductNotFound)
		}
		return "", persistErr("load product failed", err)
	}

	hasOrders, err := s.store.HasOrderHistory(ctx, productID)
	if err != nil {
		return "", persistErr("check order history failed", err)
	}

	outcome := model.DeleteOutcomeDeleted
	if hasOrders {
		outcome = model.DeleteOutcomeDeactivated
		err = s.products.DeactivateProduct(ctx, productID)
	} else {
		err = s.products.HardDeleteProduct(ctx, productID)
	}
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return "", apperr.New(apperr.NotFound, msgProductNotFound)
		}
		return "", persistErr("delete product failed", err)
	}
	// products 可能沒有快取包裝, 再清一次
	s.invalidate(ctx, productID)
	log.Info().Int("product_id", productID).Str("outcome", string(outcome)).Msg("product deleted")
	return outcome, nil
}

func (s *ProductService) ListCategories(ctx context.Context) ([]model.CategoryWithCount, error) {
	categories, err := s.store.ListCategories(ctx, true)
	if err != nil {
		return nil, persistErr("list categories failed", err)
	}
	return categories, nil
}

func (s *ProductService) StockBucketCounts(ctx context.Context) (model.StockBucketCounts, error) {
	counts, err := s.store.CountStockBuckets(ctx, constants.LowStockThreshold)
	if err != nil {
		return model.StockBucketCounts{}, persistErr("count stock buckets failed", err)
	}
	return counts, nil
}

func (s *ProductService) CountActive(ctx context.Context) (int64, error) {
	total, err := s.store.CountActiveProducts(ctx)
	if err != nil {
		return 0, persistErr("count products failed", err)
	}
	return total, nil
}

func (s *ProductService) invalidate(ctx context.Context, productIDs ...int) {
	if err := s.cache.InvalidateProducts(ctx, productIDs...); err != nil {
		log.Warn().Err(err).Ints("product_ids", productIDs).Msg("invalidate product cache failed")
	}
}

var _ IProductService = (*ProductService)(nil)
