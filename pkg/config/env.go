package config

// EnvPrefix is handed to envconfig; every field carries an explicit key anyway.
const EnvPrefix = "PETADOPT"

const (
	AppEnvDev  = "dev"
	AppEnvTest = "test"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:petadopt.db?_foreign_keys=on"
)

const (
	EnvAppEnv    = "PETADOPT_APP_ENV"
	EnvPort      = "PETADOPT_APP_PORT"
	EnvDBDSN     = "PETADOPT_DB_DSN"
	EnvDBHost    = "PETADOPT_DB_HOST"
	EnvDBUser    = "PETADOPT_DB_USER"
	EnvDBName    = "PETADOPT_DB_NAME"
	EnvUseSQLite = "PETADOPT_USE_SQLITE"

	EnvRedisURL = "PETADOPT_REDIS_URL"

	EnvSessionSecret     = "PETADOPT_SESSION_SECRET"
	EnvSessionTTLMinutes = "PETADOPT_SESSION_TTL_MINUTES"

	EnvAllowAdminSignup = "PETADOPT_ALLOW_ADMIN_SIGNUP"
	EnvTrustedProxies   = "PETADOPT_TRUSTED_PROXIES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
