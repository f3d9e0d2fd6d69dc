package db

import (
	"context"
	"os"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// 連不到測試資料庫就跳過整個 suite
func openTestDB(t *testing.T) *gorm.DB {
	conn, err := GetDbConn(
		envOr("TEST_POSTGRES_DB", "storefront_test"),
		envOr("TEST_POSTGRES_HOST", "localhost"),
		envOr("TEST_POSTGRES_PORT", "5432"),
		envOr("TEST_POSTGRES_USER", "postgres"),
		envOr("TEST_POSTGRES_PASSWORD", "password"),
	)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil || sqlDB.Ping() != nil {
		t.Skip("postgres not available")
	}
	return conn
}

type dbTestSuite struct {
	suite.Suite
	db    *gorm.DB
	store *UnifiedDBImpl
	ctx   context.Context
}

// SetupSuite 在測試套件開始前執行
func (suite *dbTestSuite) SetupSuite() {
	suite.db = openTestDB(suite.T())
	suite.store = NewUnifiedDB(suite.db)
	suite.ctx = context.Background()
	require.NoError(suite.T(), suite.store.InitMigrate())
}

// SetupTest 在每個測試前執行
func (suite *dbTestSuite) SetupTest() {
	// 清空資料表
	suite.db.Exec("DELETE FROM order_details")
	suite.db.Exec("DELETE FROM orders")
	suite.db.Exec("DELETE FROM cart_items")
	suite.db.Exec("DELETE FROM products")
	suite.db.Exec("DELETE FROM categories")
	suite.db.Exec("DELETE FROM users")
}

// TearDownSuite 在測試套件結束後執行
func (suite *dbTestSuite) TearDownSuite() {
	if suite.db != nil {
		CloseDbConn(suite.db)
	}
}

func (suite *dbTestSuite) createCategory(name string) *model.Category {
	c := &model.Category{Name: name, IsActive: true}
	require.NoError(suite.T(), suite.store.CreateCategory(suite.ctx, c))
	return c
}

func (suite *dbTestSuite) createProduct(categoryID int, name string, price string, stock int) *model.Product {
	p := &model.Product{
		Name:          name,
		Description:   name + " description",
		Brand:         "Arcade",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
		CategoryID:    categoryID,
	}
	require.NoError(suite.T(), suite.store.CreateProduct(suite.ctx, p))
	return p
}

func (suite *dbTestSuite) createUser(email string) *model.User {
	u := &model.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Test User",
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	require.NoError(suite.T(), suite.store.CreateUser(suite.ctx, u))
	return u
}
