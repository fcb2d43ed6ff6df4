package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Device       DeviceConfig
	Payments     PaymentsConfig
	Orders       OrdersConfig
	Checkout     CheckoutConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.NeedsDatabase() {
		if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
			return nil, err
		}
	}
	if err := cfg.Orders.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NeedsDatabase reports whether any configured component reads or writes the database:
// local orders or database-backed device storage.
func (c Config) NeedsDatabase() bool {
	return !c.Orders.IsRemote() || strings.EqualFold(strings.TrimSpace(c.Device.Backend), DeviceBackendDatabase)
}

type AppConfig struct {
	Env          string   `envconfig:"PULSERAS_APP_ENV" required:"true"`
	Port         string   `envconfig:"PULSERAS_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"PULSERAS_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"PULSERAS_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"PULSERAS_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PULSERAS_DB_DSN"`
	Driver string `envconfig:"PULSERAS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PULSERAS_DB_HOST"`
	LegacyPort     int    `envconfig:"PULSERAS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PULSERAS_DB_USER"`
	LegacyPassword string `envconfig:"PULSERAS_DB_PASSWORD"`
	LegacyName     string `envconfig:"PULSERAS_DB_NAME"`
	LegacySSLMode  string `envconfig:"PULSERAS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PULSERAS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PULSERAS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PULSERAS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PULSERAS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PULSERAS_REDIS_URL"`
	Address      string        `envconfig:"PULSERAS_REDIS_ADDR"`
	Password     string        `envconfig:"PULSERAS_REDIS_PASSWORD"`
	DB           int           `envconfig:"PULSERAS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PULSERAS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PULSERAS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PULSERAS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PULSERAS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PULSERAS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PULSERAS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PULSERAS_AUTO_MIGRATE" default:"false"`
}

// DeviceConfig controls where per-session device state (cart, badge, account) lives.
type DeviceConfig struct {
	Backend    string        `envconfig:"PULSERAS_DEVICE_BACKEND" default:"redis"`
	SessionTTL time.Duration `envconfig:"PULSERAS_DEVICE_SESSION_TTL" default:"720h"`
}

type PaymentsConfig struct {
	BaseURL          string        `envconfig:"PULSERAS_PAYMENTS_BASE_URL" required:"true"`
	APIKey           string        `envconfig:"PULSERAS_PAYMENTS_API_KEY"`
	Timeout          time.Duration `envconfig:"PULSERAS_PAYMENTS_TIMEOUT" default:"10s"`
	BreakerFailures  uint32        `envconfig:"PULSERAS_PAYMENTS_BREAKER_FAILURES" default:"5"`
	BreakerOpenDelay time.Duration `envconfig:"PULSERAS_PAYMENTS_BREAKER_OPEN_DELAY" default:"30s"`
}

type OrdersConfig struct {
	Mode    string        `envconfig:"PULSERAS_ORDERS_MODE" default:"local"`
	BaseURL string        `envconfig:"PULSERAS_ORDERS_BASE_URL"`
	Timeout time.Duration `envconfig:"PULSERAS_ORDERS_TIMEOUT" default:"10s"`
}

// IsRemote reports whether orders are read and written through the REST backend.
func (o OrdersConfig) IsRemote() bool {
	return strings.EqualFold(strings.TrimSpace(o.Mode), OrdersModeRemote)
}

func (o OrdersConfig) validate() error {
	mode := strings.ToLower(strings.TrimSpace(o.Mode))
	switch mode {
	case OrdersModeLocal:
		return nil
	case OrdersModeRemote:
		if strings.TrimSpace(o.BaseURL) == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvOrdersBaseURL, EnvOrdersMode, OrdersModeRemote)
		}
		return nil
	default:
		return fmt.Errorf("invalid %s %q", EnvOrdersMode, o.Mode)
	}
}

type CheckoutConfig struct {
	ClearCartOnPaid bool          `envconfig:"PULSERAS_CHECKOUT_CLEAR_CART_ON_PAID" default:"false"`
	LedgerEnabled   bool          `envconfig:"PULSERAS_CHECKOUT_LEDGER_ENABLED" default:"false"`
	LedgerTTL       time.Duration `envconfig:"PULSERAS_CHECKOUT_LEDGER_TTL" default:"24h"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"PULSERAS_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	OrdersTopic string `envconfig:"PULSERAS_PUBSUB_ORDERS_TOPIC"`
}

// Enabled reports whether order events should be published.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.OrdersTopic) != ""
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DBDriverSQLite
		if db.DSN == "" {
			db.DSN = DefaultSQLiteDSN
		}
		return nil
	}
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
