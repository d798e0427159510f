package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "PRICEPANEL"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	DefaultSQLiteDSN = "file:pricepanel.db?_foreign_keys=on"
)

const (
	EnvAppEnv       = "PRICEPANEL_APP_ENV"
	EnvPort         = "PRICEPANEL_APP_PORT"
	EnvDBDSN        = "PRICEPANEL_DB_DSN"
	EnvDBHost       = "PRICEPANEL_DB_HOST"
	EnvDBUser       = "PRICEPANEL_DB_USER"
	EnvDBName       = "PRICEPANEL_DB_NAME"
	EnvRedisURL     = "PRICEPANEL_REDIS_URL"
	EnvJWTSecret    = "PRICEPANEL_JWT_SECRET"
	EnvAdminEmail   = "PRICEPANEL_ADMIN_EMAIL"
	EnvAdminPwdHash = "PRICEPANEL_ADMIN_PASSWORD_HASH"
	EnvUseSQLite    = "PRICEPANEL_USE_SQLITE"
	EnvAssetsURL    = "PRICEPANEL_ASSETS_BASE_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
