package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "PULSERAS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	OrdersModeLocal  = "local"
	OrdersModeRemote = "remote"
)

const (
	DeviceBackendRedis    = "redis"
	DeviceBackendDatabase = "database"
	DeviceBackendMemory   = "memory"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const DefaultSQLiteDSN = "file:pulseras.db?cache=shared"

const (
	EnvAppEnv           = "PULSERAS_APP_ENV"
	EnvPort             = "PULSERAS_APP_PORT"
	EnvDBDSN            = "PULSERAS_DB_DSN"
	EnvDBHost           = "PULSERAS_DB_HOST"
	EnvDBUser           = "PULSERAS_DB_USER"
	EnvDBName           = "PULSERAS_DB_NAME"
	EnvUseSQLite        = "PULSERAS_USE_SQLITE"
	EnvRedisURL         = "PULSERAS_REDIS_URL"
	EnvDeviceBackend    = "PULSERAS_DEVICE_BACKEND"
	EnvPaymentsBaseURL  = "PULSERAS_PAYMENTS_BASE_URL"
	EnvOrdersMode       = "PULSERAS_ORDERS_MODE"
	EnvOrdersBaseURL    = "PULSERAS_ORDERS_BASE_URL"
	EnvClearCartOnPaid  = "PULSERAS_CHECKOUT_CLEAR_CART_ON_PAID"
	EnvLedgerTTL        = "PULSERAS_CHECKOUT_LEDGER_TTL"
	EnvPubSubOrderTopic = "PULSERAS_PUBSUB_ORDERS_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
