package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

// IProductCacheRepository 商品讀取快取
type IProductCacheRepository interface {
	// GetProduct 未命中回傳 ErrCacheMiss
	GetProduct(ctx context.Context, productID int) (*model.Product, error)
	SetProduct(ctx context.Context, product *model.Product) error
	DeleteProducts(ctx context.Context, productIDs ...int) error
}

var ErrCacheMiss = errors.New("product cache miss")

/*	redis 只當讀取快取, 真相來源是 DB
	結構:
	product:{id} -> product JSON (含分類)
*/
type ProductCacheRepo struct {
	productCache *redis.Client
	ttl          time.Duration
}

func NewProductCacheRepo(productCache *redis.Client, ttl time.Duration) *ProductCacheRepo {
	return &ProductCacheRepo{productCache: productCache, ttl: ttl}
}

func generateProductKey(productID int) string {
	return fmt.Sprintf("product:%d", productID)
}

func (s *ProductCacheRepo) GetProduct(ctx context.Context, productID int) (*model.Product, error) {
	raw, err := s.productCache.Get(ctx, generateProductKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var product model.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("%w: decode product %d: %v", ErrCacheMiss, productID, err)
	}
	return &product, nil
}

func (s *ProductCacheRepo) SetProduct(ctx context.Context, product *model.Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return s.productCache.Set(ctx, generateProductKey(product.ProductID), raw, s.ttl).Err()
}

func (s *ProductCacheRepo) DeleteProducts(ctx context.Context, productIDs ...int) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = generateProductKey(id)
	}
	return s.productCache.Del(ctx, keys...).Err()
}

var _ IProductCacheRepository = (*ProductCacheRepo)(nil)
