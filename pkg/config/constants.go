package config

const EnvPrefix = "HERBCART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "HERBCART_APP_ENV"
	EnvPort     = "HERBCART_APP_PORT"
	EnvDBDSN    = "HERBCART_DB_DSN"
	EnvDBHost   = "HERBCART_DB_HOST"
	EnvDBUser   = "HERBCART_DB_USER"
	EnvDBName   = "HERBCART_DB_NAME"
	EnvRedisURL = "HERBCART_REDIS_URL"
	EnvTaxRate  = "HERBCART_TAX_RATE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
