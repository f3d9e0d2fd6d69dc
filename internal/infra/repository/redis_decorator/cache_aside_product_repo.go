package redis_decorator

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog/log"
)

// ProductCacheInvalidator 交易提交後清掉受影響商品的快取
type ProductCacheInvalidator interface {
	InvalidateProducts(ctx context.Context, productIDs ...int) error
}

/*
Cache Aside
讀: 先讀 redis, 未命中讀 db 後回填
寫: 先寫 db, 成功後刪除 redis
庫存異動在交易內完成, 不經過這裡, 由 service 在 commit 後呼叫 InvalidateProducts
*/
type CacheAsideProductRepo struct {
	cache redis_repo.IProductCacheRepository
	db.IProductRepository
}

func NewCacheAsideProductRepo(cache redis_repo.IProductCacheRepository, dbRepo db.IProductRepository) *CacheAsideProductRepo {
	v1 := reflect.ValueOf(cache)
	if cache == nil || (v1.Kind() == reflect.Ptr && v1.IsNil()) {
		panic("NewCacheAsideProductRepo: cache repository implementation cannot be nil")
	}

	v2 := reflect.ValueOf(dbRepo)
	if dbRepo == nil || (v2.Kind() == reflect.Ptr && v2.IsNil()) {
		panic("NewCacheAsideProductRepo: db repository implementation cannot be nil")
	}

	return &CacheAsideProductRepo{
		cache:              cache,
		IProductRepository: dbRepo,
	}
}

func (p *CacheAsideProductRepo) GetProductByID(ctx context.Context, productID int) (*model.Product, error) {
	product, err := p.cache.GetProduct(ctx, productID)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, redis_repo.ErrCacheMiss) {
		log.Warn().Err(err).Int("product_id", productID).Msg("product cache read failed, fallback to db")
	}

	product, err = p.IProductRepository.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := p.cache.SetProduct(ctx, product); err != nil {
		log.Warn().Err(err).Int("product_id", productID).Msg("product cache fill failed")
	}
	return product, nil
}

func (p *CacheAsideProductRepo) UpdateProduct(ctx context.Context, product *model.Product) error {
	if err := p.IProductRepository.UpdateProduct(ctx, product); err != nil {
		return err
	}
	p.invalidateAfterWrite(ctx, product.ProductID)
	return nil
}

func (p *CacheAsideProductRepo) DeactivateProduct(ctx context.Context, productID int) error {
	if err := p.IProductRepository.DeactivateProduct(ctx, productID); err != nil {
		return err
	}
	p.invalidateAfterWrite(ctx, productID)
	return nil
}

func (p *CacheAsideProductRepo) HardDeleteProduct(ctx context.Context, productID int) error {
	if err := p.IProductRepository.HardDeleteProduct(ctx, productID); err != nil {
		return err
	}
	p.invalidateAfterWrite(ctx, productID)
	return nil
}

// db 已提交, 快取刪除失敗只記錄, 不影響寫入結果
func (p *CacheAsideProductRepo) invalidateAfterWrite(ctx context.Context, productIDs ...int) {
	if err := p.InvalidateProducts(ctx, productIDs...); err != nil {
		log.Error().Err(err).Ints("product_ids", productIDs).Msg("product cache delete failed after db write")
	}
}

// 刪除失敗時延遲再刪一次, 仍回傳第一次的錯誤
func (p *CacheAsideProductRepo) InvalidateProducts(ctx context.Context, productIDs ...int) error {
	if len(productIDs) == 0 {
		return nil
	}
	err := p.cache.DeleteProducts(ctx, productIDs...)
	if err != nil {
		ids := append([]int(nil), productIDs...)
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := p.cache.DeleteProducts(context.Background(), ids...); err != nil {
				log.Error().Err(err).Ints("product_ids", ids).Msg("product cache delete retry failed")
			}
		}()
		return err
	}
	return nil
}

// NoopInvalidator 沒有啟用 redis 時使用
type NoopInvalidator struct{}

func (NoopInvalidator) InvalidateProducts(context.Context, ...int) error { return nil }

var (
	_ db.IProductRepository   = (*CacheAsideProductRepo)(nil)
	_ ProductCacheInvalidator = (*CacheAsideProductRepo)(nil)
	_ ProductCacheInvalidator = NoopInvalidator{}
)
