package appcontext

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/inventory"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_decorator"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/logger"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/token"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// 庫存鎖分段數
const inventoryStripes = 64

type ApplicationContext struct {
	Cf               *config.Config
	Logger           *zerolog.Logger
	DbConn           *gorm.DB
	DbDao            *db.UnifiedDBImpl
	RedisClient      *redis.Client
	ProductRepo      db.IProductRepository
	CacheInvalidator redis_decorator.ProductCacheInvalidator
	Inventory        *inventory.Inventory
	EventProducer    producer.IOrderEventProducer
	TokenMaker       token.Maker
	LoginLimiter     ratelimit.ILimiter
	CartService      service.ICartService
	ProductService   service.IProductService
	OrderService     service.IOrderService
	AuthService      service.IAuthService
	DashboardService service.IDashboardService
}

func NewApplicationContext(cf *config.Config) (*ApplicationContext, error) {
	if cf == nil {
		return nil, errors.New("config cannot be nil")
	}
	app := ApplicationContext{
		Cf: cf,
	}
	if err := app.Init(); err != nil {
		// 已建立的連線要釋放
		_ = app.Shutdown(context.Background())
		return nil, err
	}
	return &app, nil
}

func (app *ApplicationContext) Init() error {
	steps := []func() error{
		app.setUpLogger,
		app.setUpdbConn,
		app.setUpdbMigration,
		app.setUpdbDao,
		app.setUpRedis,
		app.setUpProductCache,
		app.setUpInventory,
		app.setUpEventProducer,
		app.setTokenMaker,
		app.setUpLoginLimiter,
		app.setUpServices,
		app.seedAdmin,
		app.seedCatalog,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (app *ApplicationContext) setUpLogger() error {
	app.Logger = logger.New(app.Cf.LogLevel, app.Cf.Env)
	log.Info().Str("env", string(app.Cf.Env)).Str("level", app.Cf.LogLevel).Msg("Finish setup logger")
	return nil
}

func (app *ApplicationContext) setUpdbConn() error {
	log.Info().Msg("Start setup database connection")
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	app.DbConn = conn
	log.Info().Msg("Finish setup database connection")
	return nil
}

// MIGRATION_URL 設為空字串時改用 gorm AutoMigrate
func (app *ApplicationContext) setUpdbMigration() error {
	log.Info().Msg("Start setup db migration")
	if app.Cf.MigrationURL == "" {
		if err := db.NewDbDao(app.DbConn).InitMigrate(); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	} else if err := db.RunMigrations(app.Cf.MigrationURL, app.Cf.DbSource()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info().Msg("Finish setup db migration")
	return nil
}

func (app *ApplicationContext) setUpdbDao() error {
	log.Info().Msg("Start setup database DAO")
	app.DbDao = db.NewUnifiedDB(app.DbConn)
	log.Info().Msg("Finish setup database DAO")
	return nil
}

// 沒有設定 REDIS_ADDR 時不使用快取, 限流改用記憶體
func (app *ApplicationContext) setUpRedis() error {
	if !app.Cf.RedisEnabled() {
		log.Warn().Msg("REDIS_ADDR not set, product cache disabled")
		return nil
	}
	log.Info().Msg("Start setup redis client")
	client, err := redis_repo.GetRedisClient(context.Background(), app.Cf.RedisAddr, app.Cf.RedisPassword, app.Cf.RedisDB)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	app.RedisClient = client
	log.Info().Msg("Finish setup redis client")
	return nil
}

func (app *ApplicationContext) setUpProductCache() error {
	log.Info().Msg("Start setup product cache")
	if app.RedisClient == nil {
		app.ProductRepo = app.DbDao
		app.CacheInvalidator = redis_decorator.NoopInvalidator{}
	} else {
		cacheRepo := redis_repo.NewProductCacheRepo(app.RedisClient, app.Cf.ProductCacheTTL)
		cacheAside := redis_decorator.NewCacheAsideProductRepo(cacheRepo, app.DbDao)
		app.ProductRepo = cacheAside
		app.CacheInvalidator = cacheAside
	}
	log.Info().Msg("Finish setup product cache")
	return nil
}

func (app *ApplicationContext) setUpInventory() error {
	app.Inventory = inventory.New(inventoryStripes)
	return nil
}

// 沒有設定 KAFKA_BROKERS 時事件只寫 log
func (app *ApplicationContext) setUpEventProducer() error {
	log.Info().Msg("Start setup order event producer")
	if !app.Cf.KafkaEnabled() {
		app.EventProducer = producer.NoopOrderEventProducer{}
		log.Warn().Msg("KAFKA_BROKERS not set, order events are only logged")
		return nil
	}
	p, err := producer.NewOrderEventProducer(producer.Config{
		Brokers:       app.Cf.KafkaBrokers,
		Topic:         app.Cf.KafkaOrderTopic,
		RetryAttempts: 3,
		RequiredAcks:  -1,
	})
	if err != nil {
		return fmt.Errorf("create order event producer: %w", err)
	}
	app.EventProducer = p
	log.Info().Strs("brokers", app.Cf.KafkaBrokers).Str("topic", app.Cf.KafkaOrderTopic).Msg("Finish setup order event producer")
	return nil
}

func (app *ApplicationContext) setTokenMaker() error {
	log.Info().Msg("Start setup token maker")
	tokenMaker, err := token.NewJWTMaker(app.Cf.AuthTokenKey, app.Cf.AuthTokenIssuer)
	if err != nil {
		return fmt.Errorf("無法創建 token maker: %w", err)
	}
	app.TokenMaker = tokenMaker
	log.Info().Msg("Finish setup token maker")
	return nil
}

func (app *ApplicationContext) setUpLoginLimiter() error {
	log.Info().Msg("Start setup login rate limiter")
	cfg := ratelimit.LimiterConfig{
		Prefix:   "storefront:login",
		Capacity: app.Cf.LoginRateLimit,
		Window:   app.Cf.LoginRateWindow,
	}
	if app.RedisClient != nil {
		app.LoginLimiter = ratelimit.NewRedisFixedWindow(app.RedisClient, cfg)
	} else {
		app.LoginLimiter = ratelimit.NewFixedWindow(cfg)
	}
	log.Info().Msg("Finish setup login rate limiter")
	return nil
}

func (app *ApplicationContext) setUpServices() error {
	log.Info().Msg("Start setup services")
	pricing := config.NewLivePricing(app.Cf)
	app.CartService = service.NewCartService(app.DbDao, pricing)
	app.ProductService = service.NewProductService(app.DbDao, app.ProductRepo, app.Inventory, app.CacheInvalidator)
	app.OrderService = service.NewOrderService(app.DbDao, app.Inventory, app.EventProducer, app.CacheInvalidator, pricing)
	app.AuthService = service.NewAuthService(app.DbDao, app.TokenMaker, service.AuthConfig{
		MaxFailedLogins: app.Cf.MaxFailedLogins,
		LockoutDuration: app.Cf.LockoutDuration,
		TokenDuration:   app.Cf.AuthTokenDuration,
		BcryptCost:      service.DefaultAuthConfig().BcryptCost,
	})
	app.DashboardService = service.NewDashboardService(app.DbDao)
	log.Info().Msg("Finish setup services")
	return nil
}

// 設定 SEED_ADMIN_EMAIL 時建立第一個管理員
func (app *ApplicationContext) seedAdmin() error {
	if app.Cf.SeedAdminEmail == "" {
		return nil
	}
	log.Info().Msg("Start seed admin account")
	if err := app.AuthService.EnsureAdmin(context.Background(), app.Cf.SeedAdminEmail, app.Cf.SeedAdminPassword, ""); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Msg("Finish seed admin account")
	return nil
}

// 設定 SEED_CATALOG_PATH 且目錄為空時匯入初始商品
func (app *ApplicationContext) seedCatalog() error {
	if app.Cf.SeedCatalogPath == "" {
		return nil
	}
	log.Info().Str("path", app.Cf.SeedCatalogPath).Msg("Start seed catalog")
	seed, err := config.LoadCatalogSeed(app.Cf.SeedCatalogPath)
	if err != nil {
		return fmt.Errorf("load catalog seed: %w", err)
	}
	seeded, err := service.SeedCatalog(context.Background(), app.DbDao, seed)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	log.Info().Bool("seeded", seeded).Msg("Finish seed catalog")
	return nil
}

func (app *ApplicationContext) Shutdown(ctx context.Context) error {
	log.Info().Msg("Start application shutdown")

	done := make(chan error, 1)
	go func() {
		var errs []error
		// 先停事件, 避免還有訊息寫到已關閉的連線
		if app.EventProducer != nil {
			log.Info().Msg("Closing order event producer...")
			if err := app.EventProducer.Close(); err != nil && !errors.Is(err, producer.ErrProducerClosed) {
				errs = append(errs, fmt.Errorf("close producer: %w", err))
			}
		}
		if app.RedisClient != nil {
			log.Info().Msg("Closing redis client...")
			if err := app.RedisClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close redis: %w", err))
			}
		}
		if app.DbConn != nil {
			log.Info().Msg("Closing database connection...")
			if err := db.CloseDbConn(app.DbConn); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
		log.Info().Msg("Application shutdown complete")
		done <- errors.Join(errs...)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}
