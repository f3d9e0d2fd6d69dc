package db

import (
	"context"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnifiedDB 統一的資料庫介面
type UnifiedDB interface {
	// Transaction 內的 tx 同樣是 UnifiedDB, fn 回傳錯誤即 rollback
	Transaction(ctx context.Context, fn func(tx UnifiedDB) error) error

	IProductRepository
	ICategoryRepository
	IStockRepository
	ICartRepository
	IOrderRepository
	IUserRepository
}

// IProductRepository Product 相關操作介面
// 庫存異動不在這裡, 統一走 IStockRepository
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID int) (*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	SearchProducts(ctx context.Context, q model.ProductQuery) ([]model.Product, int64, error)
	GetFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error)
	GetLowStockProducts(ctx context.Context, threshold int, limit int) ([]model.Product, error)
	CountActiveProducts(ctx context.Context) (int64, error)
	CountStockBuckets(ctx context.Context, threshold int) (model.StockBucketCounts, error)
	HasOrderHistory(ctx context.Context, productID int) (bool, error)
	DeactivateProduct(ctx context.Context, productID int) error
	HardDeleteProduct(ctx context.Context, productID int) error
}

// ICategoryRepository Category 相關操作介面
type ICategoryRepository interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategoryByID(ctx context.Context, categoryID int) (*model.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]model.CategoryWithCount, error)
}

// IStockRepository 庫存欄位唯一的寫入口
type IStockRepository interface {
	GetStock(ctx context.Context, productID int) (int, error)
	// DecrementStock 條件式扣減, 庫存不足回傳 ErrStockNotEnough
	DecrementStock(ctx context.Context, productID int, quantity int) error
	IncrementStock(ctx context.Context, productID int, quantity int) (int, error)
	SetStock(ctx context.Context, productID int, quantity int) error
}

// ICartRepository CartItem 相關操作介面
type ICartRepository interface {
	GetCartItems(ctx context.Context, userID int) ([]model.CartItem, error)
	GetCartItem(ctx context.Context, userID int, productID int) (*model.CartItem, error)
	CreateCartItem(ctx context.Context, item *model.CartItem) error
	UpdateCartItem(ctx context.Context, item *model.CartItem) error
	DeleteCartItem(ctx context.Context, userID int, productID int) error
	ClearCart(ctx context.Context, userID int) error
	CountCartItems(ctx context.Context, userID int) (int, error)
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID int) (*model.Order, error)
	GetUserOrder(ctx context.Context, userID int, orderID int) (*model.Order, error)
	ListOrders(ctx context.Context, q model.OrderQuery) ([]model.Order, int64, error)
	GetRecentOrders(ctx context.Context, limit int) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, order *model.Order) error
	CountOrdersByStatus(ctx context.Context) (map[model.OrderStatus]int64, error)
	CountOrders(ctx context.Context, since *time.Time) (int64, error)
	SumRevenue(ctx context.Context, since *time.Time) (decimal.Decimal, error)
}

// IUserRepository User 相關操作介面
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, userID int) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	CountUsersByRole(ctx context.Context, role model.Role) (int64, error)
}

// UnifiedDBImpl 統一資料庫實現
type UnifiedDBImpl struct {
	db    *gorm.DB
	dbDao *DbDao
	*ProductDBRepo
	*CategoryRepo
	*StockRepo
	*CartRepo
	*OrderRepo
	*UserRepo
}

// NewUnifiedDB 創建新的統一資料庫實例
func NewUnifiedDB(db *gorm.DB) *UnifiedDBImpl {
	dbDao := NewDbDao(db)
	return &UnifiedDBImpl{
		db:            db,
		dbDao:         dbDao,
		ProductDBRepo: NewProductDBRepo(dbDao),
		CategoryRepo:  NewCategoryRepo(dbDao),
		StockRepo:     NewStockRepo(dbDao),
		CartRepo:      NewCartRepo(dbDao),
		OrderRepo:     NewOrderRepo(dbDao),
		UserRepo:      NewUserRepo(dbDao),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

// GetDB 獲取資料庫連接
func (u *UnifiedDBImpl) GetDB() *gorm.DB {
	return u.db
}

// Transaction 開始事務, 同一個 tx 綁定所有 repo
func (u *UnifiedDBImpl) Transaction(ctx context.Context, fn func(tx UnifiedDB) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnifiedDB(tx))
	})
}

var (
	_ UnifiedDB           = (*UnifiedDBImpl)(nil)
	_ IProductRepository  = (*UnifiedDBImpl)(nil)
	_ ICategoryRepository = (*UnifiedDBImpl)(nil)
	_ IStockRepository    = (*UnifiedDBImpl)(nil)
	_ ICartRepository     = (*UnifiedDBImpl)(nil)
	_ IOrderRepository    = (*UnifiedDBImpl)(nil)
	_ IUserRepository     = (*UnifiedDBImpl)(nil)
)
