package redis_repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func setupTestRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	// 用測試DB
	rdb, err := GetRedisClient(context.Background(), addr, os.Getenv("TEST_REDIS_PASSWORD"), 1)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	return rdb
}

type ProductCacheRepoTestSuite struct {
	suite.Suite
	rdb  *redis.Client
	repo *ProductCacheRepo
}

func TestProductCacheRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductCacheRepoTestSuite))
}

func (suite *ProductCacheRepoTestSuite) SetupTest() {
	suite.rdb = setupTestRedis(suite.T())
	suite.rdb.FlushDB(context.Background())
	suite.repo = NewProductCacheRepo(suite.rdb, time.Minute)
}

func (suite *ProductCacheRepoTestSuite) TearDownTest() {
	if suite.rdb != nil {
		suite.rdb.Close()
	}
}

func (suite *ProductCacheRepoTestSuite) TestSetGetDelete() {
	ctx := context.Background()
	p := &model.Product{ProductID: 7, Name: "Arcade Stick", Price: decimal.RequireFromString("149.99"), StockQuantity: 3, IsActive: true}

	_, err := suite.repo.GetProduct(ctx, 7)
	assert.ErrorIs(suite.T(), err, ErrCacheMiss)

	require.NoError(suite.T(), suite.repo.SetProduct(ctx, p))

	cached, err := suite.repo.GetProduct(ctx, 7)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Arcade Stick", cached.Name)
	assert.True(suite.T(), p.Price.Equal(cached.Price))
	assert.Equal(suite.T(), 3, cached.StockQuantity)

	ttl := suite.rdb.TTL(ctx, generateProductKey(7)).Val()
	assert.True(suite.T(), ttl > 0 && ttl <= time.Minute)

	require.NoError(suite.T(), suite.repo.DeleteProducts(ctx, 7, 8))
	_, err = suite.repo.GetProduct(ctx, 7)
	assert.ErrorIs(suite.T(), err, ErrCacheMiss)
}
