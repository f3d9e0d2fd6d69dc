package db

import (
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrStockNotEnough 商品庫存不足
	ErrStockNotEnough   = errors.New("product stock not enough")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already registered")
)

// 所有 repo 共用, 可以是連線也可以是 transaction
type DbDao struct {
	*gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	return &DbDao{
		DB: conn,
	}
}

// 初始化db schema
// 冪等性, 測試與本機開發用, 正式環境走 RunMigrations
func (d *DbDao) InitMigrate() error {
	return d.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.User{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderDetail{},
	)
}

// RunMigrations 執行 golang-migrate SQL, 沒有變更不算錯誤
func RunMigrations(migrationURL string, dbSource string) error {
	m, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// 將 gorm not found 轉為 repo 自己的錯誤
func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
