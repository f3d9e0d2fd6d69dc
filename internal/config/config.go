package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

/*
把init config跟read config分開
init : 需要設置viper watch 與 onConfigChange
read config : 一般讀寫  需要使用讀寫鎖
*/
var configSingleton *ConfigSingleTon
var muonce sync.Once

// 設定檔路徑環境變數, 未設定時使用 ./.env
const ConfigPathEnv = "STOREFRONT_CONFIG"

type ConfigSingleTon struct {
	Config *Config
	v      *viper.Viper
	mu     sync.RWMutex
}

type Config struct {
	ServerPort string        `mapstructure:"SERVER_PORT"`
	Env        constants.ENV `mapstructure:"ENV"`
	LogLevel   string        `mapstructure:"LOG_LEVEL"`

	DbName       string `mapstructure:"POSTGRES_DB"`
	DbHost       string `mapstructure:"POSTGRES_HOST"`
	DbPort       string `mapstructure:"POSTGRES_PORT"`
	DbUser       string `mapstructure:"POSTGRES_USER"`
	DbPas        string `mapstructure:"POSTGRES_PASSWORD"`
	MigrationURL string `mapstructure:"MIGRATION_URL"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	ProductCacheTTL time.Duration `mapstructure:"PRODUCT_CACHE_TTL"`

	KafkaBrokers    []string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string   `mapstructure:"KAFKA_ORDER_TOPIC"`

	AuthTokenKey      string        `mapstructure:"AUTH_TOKEN_KEY"`
	AuthTokenIssuer   string        `mapstructure:"AUTH_TOKEN_ISSUER"`
	AuthTokenDuration time.Duration `mapstructure:"AUTH_TOKEN_DURATION"`
	CookieSecure      bool          `mapstructure:"COOKIE_SECURE"`

	MaxFailedLogins int           `mapstructure:"MAX_FAILED_LOGINS"`
	LockoutDuration time.Duration `mapstructure:"LOCKOUT_DURATION"`
	LoginRateLimit  int           `mapstructure:"LOGIN_RATE_LIMIT"`
	LoginRateWindow time.Duration `mapstructure:"LOGIN_RATE_WINDOW"`

	// 位於反向代理之後才開啟, 登入限流改用 X-Forwarded-For / X-Real-IP
	TrustProxyHeaders bool `mapstructure:"TRUST_PROXY_HEADERS"`

	FreeShippingThreshold float64 `mapstructure:"FREE_SHIPPING_THRESHOLD"`
	FlatShippingFee       float64 `mapstructure:"FLAT_SHIPPING_FEE"`
	TaxRate               float64 `mapstructure:"TAX_RATE"`

	SeedAdminEmail    string `mapstructure:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `mapstructure:"SEED_ADMIN_PASSWORD"`
	SeedCatalogPath   string `mapstructure:"SEED_CATALOG_PATH"`
}

var defaults = map[string]any{
	"SERVER_PORT":             "8080",
	"ENV":                     string(constants.Dev),
	"LOG_LEVEL":               "info",
	"POSTGRES_DB":             "storefront",
	"POSTGRES_HOST":           "localhost",
	"POSTGRES_PORT":           "5432",
	"POSTGRES_USER":           "postgres",
	"POSTGRES_PASSWORD":       "password",
	"MIGRATION_URL":           "file://internal/infra/repository/db/migrations",
	"REDIS_ADDR":              "",
	"REDIS_PASSWORD":          "",
	"REDIS_DB":                0,
	"PRODUCT_CACHE_TTL":       "5m",
	"KAFKA_BROKERS":           "",
	"KAFKA_ORDER_TOPIC":       "storefront.orders",
	"AUTH_TOKEN_KEY":          "",
	"AUTH_TOKEN_ISSUER":       "storefront",
	"AUTH_TOKEN_DURATION":     constants.DefaultTokenDuration.String(),
	"COOKIE_SECURE":           false,
	"MAX_FAILED_LOGINS":       constants.DefaultMaxFailedLogins,
	"LOCKOUT_DURATION":        constants.DefaultLockoutDuration.String(),
	"LOGIN_RATE_LIMIT":        10,
	"LOGIN_RATE_WINDOW":       "1m",
	"TRUST_PROXY_HEADERS":     false,
	"FREE_SHIPPING_THRESHOLD": 2500.0,
	"FLAT_SHIPPING_FEE":       100.0,
	"TAX_RATE":                0.14,
	"SEED_ADMIN_EMAIL":        "",
	"SEED_ADMIN_PASSWORD":     "",
	"SEED_CATALOG_PATH":       "",
}

func GetConfig() *Config {
	initConfig()
	configSingleton.mu.RLock()
	defer configSingleton.mu.RUnlock()
	return configSingleton.Config
}

func initConfig() {
	if configSingleton == nil {
		muonce.Do(func() {
			path := os.Getenv(ConfigPathEnv)
			if path == "" {
				path = "./.env"
			}
			v := newViper(path)
			configSingleton = &ConfigSingleTon{v: v}
			if cf, err := configSingleton.reload(); err == nil {
				configSingleton.Config = cf
			} else {
				log.Fatalf("error read config: %v", err)
			}
			if fileExists(path) {
				v.WatchConfig()
				v.OnConfigChange(func(e fsnotify.Event) {
					log.Printf("config file changed: %s", e.Name)
					if _, err := configSingleton.reload(); err != nil {
						log.Printf("failed to reload config file: %v", err)
					}
				})
			}
		})
	}
}

func (c *ConfigSingleTon) reload() (*Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cf, err := readConfig(c.v)
	if err != nil {
		return nil, err
	}
	c.Config = cf
	return cf, nil
}

/*
單純回傳錯誤  由外部決定要不要Fatal, 畢竟有可能有替代方案
設定檔不存在時只使用環境變數與預設值
*/
func LoadConfig(path string) (*Config, error) {
	return readConfig(newViper(path))
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	return v
}

func readConfig(v *viper.Viper) (*Config, error) {
	if fileExists(v.ConfigFileUsed()) {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cf.KafkaBrokers = splitList(cf.KafkaBrokers)

	if err := cf.Validate(); err != nil {
		return nil, err
	}
	return cf, nil
}

func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT is required")
	}
	if c.TaxRate < 0 || c.FlatShippingFee < 0 || c.FreeShippingThreshold < 0 {
		return errors.New("pricing values must not be negative")
	}
	if c.MaxFailedLogins <= 0 {
		return errors.New("MAX_FAILED_LOGINS must be positive")
	}
	return nil
}

// Pricing 將設定值轉成 decimal
func (c *Config) Pricing() model.Pricing {
	return model.Pricing{
		FreeShippingThreshold: decimal.NewFromFloat(c.FreeShippingThreshold),
		FlatShippingFee:       decimal.NewFromFloat(c.FlatShippingFee),
		TaxRate:               decimal.NewFromFloat(c.TaxRate),
	}
}

// LivePricing 每次計價讀取目前的設定, 設定檔 hot reload 後下一筆結帳即生效
type LivePricing struct {
	source   *ConfigSingleTon
	fallback model.Pricing
}

// NewLivePricing 全域設定尚未載入時 (例如測試直接傳入 Config) 固定使用 cf 的值
func NewLivePricing(cf *Config) *LivePricing {
	return &LivePricing{source: configSingleton, fallback: cf.Pricing()}
}

func (l *LivePricing) CurrentPricing() model.Pricing {
	if l.source == nil {
		return l.fallback
	}
	l.source.mu.RLock()
	defer l.source.mu.RUnlock()
	if l.source.Config == nil {
		return l.fallback
	}
	return l.source.Config.Pricing()
}

func (c *Config) DbSource() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DbUser, c.DbPas, c.DbHost, c.DbPort, c.DbName)
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// 環境變數給的是 "a:9092,b:9092" 單一字串
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
