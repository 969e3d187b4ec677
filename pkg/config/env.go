package config

const EnvPrefix = "GROCERY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:grocery.db?cache=shared&_foreign_keys=on"
)

const (
	EnvAppEnv        = "GROCERY_APP_ENV"
	EnvPort          = "GROCERY_APP_PORT"
	EnvLogLevel      = "GROCERY_LOG_LEVEL"
	EnvDefaultUserID = "GROCERY_DEFAULT_USER_ID"
	EnvCORSOrigins   = "GROCERY_CORS_ORIGINS"

	EnvDBDSN    = "GROCERY_DB_DSN"
	EnvDBDriver = "GROCERY_DB_DRIVER"
	EnvDBHost   = "GROCERY_DB_HOST"
	EnvDBPort   = "GROCERY_DB_PORT"
	EnvDBUser   = "GROCERY_DB_USER"
	EnvDBPass   = "GROCERY_DB_PASSWORD"
	EnvDBName   = "GROCERY_DB_NAME"

	EnvRedisURL  = "GROCERY_REDIS_URL"
	EnvRedisAddr = "GROCERY_REDIS_ADDR"

	EnvAutoMigrate  = "GROCERY_AUTO_MIGRATE"
	EnvCartLockTTL  = "GROCERY_CART_LOCK_TTL"
	EnvCartLockWait = "GROCERY_CART_LOCK_WAIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
