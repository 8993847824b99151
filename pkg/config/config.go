package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "SAYUR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Shipping     ShippingConfig
	Xendit       XenditConfig
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
	Env          string `envconfig:"SAYUR_APP_ENV" required:"true"`
	Port         string `envconfig:"SAYUR_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"SAYUR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAYUR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SAYUR_DB_DSN"`

	Host     string `envconfig:"SAYUR_DB_HOST"`
	Port     int    `envconfig:"SAYUR_DB_PORT" default:"5432"`
	User     string `envconfig:"SAYUR_DB_USER"`
	Password string `envconfig:"SAYUR_DB_PASSWORD"`
	Name     string `envconfig:"SAYUR_DB_NAME"`
	SSLMode  string `envconfig:"SAYUR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAYUR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SAYUR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SAYUR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAYUR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either SAYUR_DB_DSN or SAYUR_DB_HOST/USER/NAME must be set")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SAYUR_REDIS_URL"`
	Address      string        `envconfig:"SAYUR_REDIS_ADDR"`
	Password     string        `envconfig:"SAYUR_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAYUR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAYUR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAYUR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAYUR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAYUR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAYUR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SAYUR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SAYUR_JWT_ISSUER" default:"be-sayur-segar"`
	ExpirationMinutes int    `envconfig:"SAYUR_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SAYUR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SAYUR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SAYUR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SAYUR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SAYUR_ARGON_KEY_LEN" default:"32"`
}

type ShippingConfig struct {
	// FlatFee is the per-seller shipping fee in rupiah until a real rate engine lands.
	FlatFee int `envconfig:"SAYUR_SHIPPING_FLAT_FEE" default:"20000"`
}

type XenditConfig struct {
	BaseURL            string        `envconfig:"SAYUR_XENDIT_BASE_URL" default:"https://api.xendit.co"`
	APIKey             string        `envconfig:"SAYUR_XENDIT_API_KEY" required:"true"`
	CallbackToken      string        `envconfig:"SAYUR_XENDIT_CALLBACK_TOKEN" required:"true"`
	SuccessRedirectURL string        `envconfig:"SAYUR_XENDIT_SUCCESS_REDIRECT_URL"`
	FailureRedirectURL string        `envconfig:"SAYUR_XENDIT_FAILURE_REDIRECT_URL"`
	Currency           string        `envconfig:"SAYUR_XENDIT_CURRENCY" default:"IDR"`
	Timeout            time.Duration `envconfig:"SAYUR_XENDIT_TIMEOUT" default:"15s"`
	WebhookDedupTTL    time.Duration `envconfig:"SAYUR_XENDIT_WEBHOOK_DEDUP_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SAYUR_AUTO_MIGRATE" default:"false"`
}
