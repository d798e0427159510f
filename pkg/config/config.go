package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Admin         AdminConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Assets        AssetsConfig
	Ingest        IngestConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadPassword reads only the Argon2 settings, for tooling that runs before
// the admin account exists.
func LoadPassword() (PasswordConfig, error) {
	var cfg PasswordConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return PasswordConfig{}, fmt.Errorf("parsing password config: %w", err)
	}
	return cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"PRICEPANEL_APP_ENV" required:"true"`
	Port         string   `envconfig:"PRICEPANEL_APP_PORT" default:"8080"`
	LogLevel     string   `envconfig:"PRICEPANEL_LOG_LEVEL" default:"info"`
	LogFormat    string   `envconfig:"PRICEPANEL_LOG_FORMAT" default:"json"`
	LogWarnStack bool     `envconfig:"PRICEPANEL_LOG_WARN_STACK" default:"false"`
	// CORSOrigins lists the TV web client and admin UI origins; empty allows localhost only.
	CORSOrigins  []string `envconfig:"PRICEPANEL_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PRICEPANEL_DB_DSN"`
	Driver string `envconfig:"PRICEPANEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRICEPANEL_DB_HOST"`
	LegacyPort     int    `envconfig:"PRICEPANEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRICEPANEL_DB_USER"`
	LegacyPassword string `envconfig:"PRICEPANEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRICEPANEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRICEPANEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRICEPANEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRICEPANEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRICEPANEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRICEPANEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold logs statements slower than this at warn; zero disables it.
	SlowQueryThreshold time.Duration `envconfig:"PRICEPANEL_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

// IsSQLite reports whether the configured driver targets SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PRICEPANEL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRICEPANEL_REDIS_ADDR"`
	Password     string        `envconfig:"PRICEPANEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRICEPANEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRICEPANEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRICEPANEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRICEPANEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRICEPANEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRICEPANEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PRICEPANEL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PRICEPANEL_JWT_ISSUER" default:"pricepanel"`
	ExpirationMinutes int    `envconfig:"PRICEPANEL_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PRICEPANEL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PRICEPANEL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PRICEPANEL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PRICEPANEL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PRICEPANEL_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig holds the single operator account allowed into the admin API.
type AdminConfig struct {
	Email        string `envconfig:"PRICEPANEL_ADMIN_EMAIL" required:"true"`
	PasswordHash string `envconfig:"PRICEPANEL_ADMIN_PASSWORD_HASH" required:"true"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"PRICEPANEL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"PRICEPANEL_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"PRICEPANEL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PRICEPANEL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PRICEPANEL_AUTO_MIGRATE" default:"false"`
}

// AssetsConfig controls how stored video/image paths are exposed to devices.
type AssetsConfig struct {
	BaseURL string `envconfig:"PRICEPANEL_ASSETS_BASE_URL" default:"/media/"`
}

type IngestConfig struct {
	MaxUploadMB int `envconfig:"PRICEPANEL_INGEST_MAX_UPLOAD_MB" default:"20"`
}

// MaxUploadBytes returns the multipart limit applied to spreadsheet uploads.
func (i IngestConfig) MaxUploadBytes() int64 {
	if i.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(i.MaxUploadMB) << 20
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
