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
	Cart         CartConfig
	Printing     PrintingConfig
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
	Env          string `envconfig:"SAJPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"SAJPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SAJPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SAJPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SAJPOS_DB_DSN"`

	LegacyHost     string `envconfig:"SAJPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"SAJPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SAJPOS_DB_USER"`
	LegacyPassword string `envconfig:"SAJPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SAJPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SAJPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SAJPOS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SAJPOS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SAJPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SAJPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SAJPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SAJPOS_REDIS_ADDR"`
	Password     string        `envconfig:"SAJPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SAJPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SAJPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SAJPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SAJPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SAJPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SAJPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig tunes the per-terminal cart store.
type CartConfig struct {
	// TTL for an abandoned cart key. Zero keeps carts until cleared.
	TTL time.Duration `envconfig:"SAJPOS_CART_TTL" default:"0"`
}

type PrintingConfig struct {
	// Mode selects the printer backend. "log" is the only built-in backend;
	// hardware spoolers plug in behind the same interface.
	Mode string `envconfig:"SAJPOS_PRINT_MODE" default:"log"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SAJPOS_AUTO_MIGRATE" default:"false"`
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
