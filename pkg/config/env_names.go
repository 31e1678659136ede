package config

// EnvPrefix namespaces every environment variable the app reads.
const EnvPrefix = "SAJPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "SAJPOS_APP_ENV"
	EnvPort     = "SAJPOS_APP_PORT"
	EnvDBDSN    = "SAJPOS_DB_DSN"
	EnvDBHost   = "SAJPOS_DB_HOST"
	EnvDBUser   = "SAJPOS_DB_USER"
	EnvDBName   = "SAJPOS_DB_NAME"
	EnvRedisURL = "SAJPOS_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
