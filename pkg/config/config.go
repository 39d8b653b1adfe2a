package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Pricing      PricingConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HERBCART_APP_ENV" required:"true"`
	Port         string `envconfig:"HERBCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HERBCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HERBCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HERBCART_DB_DSN"`
	Driver string `envconfig:"HERBCART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HERBCART_DB_HOST"`
	LegacyPort     int    `envconfig:"HERBCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HERBCART_DB_USER"`
	LegacyPassword string `envconfig:"HERBCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"HERBCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"HERBCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HERBCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HERBCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HERBCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HERBCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HERBCART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HERBCART_REDIS_ADDR"`
	Password     string        `envconfig:"HERBCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"HERBCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HERBCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HERBCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HERBCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HERBCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HERBCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig carries the store-wide knobs the pricing engine consumes.
// The tax rate is a flat fraction (0.08 means 8%); shipping values are the
// fallbacks used until an administrator saves store settings.
type PricingConfig struct {
	TaxRate                      decimal.Decimal `envconfig:"HERBCART_TAX_RATE" default:"0.08"`
	DefaultFreeShippingThreshold decimal.Decimal `envconfig:"HERBCART_FREE_SHIPPING_THRESHOLD" default:"50"`
	DefaultFlatShippingCost      decimal.Decimal `envconfig:"HERBCART_FLAT_SHIPPING_COST" default:"9.99"`
	CouponCacheTTL               time.Duration   `envconfig:"HERBCART_COUPON_CACHE_TTL" default:"5m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HERBCART_AUTO_MIGRATE" default:"false"`
	SeedBundles bool `envconfig:"HERBCART_SEED_BUNDLES" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
