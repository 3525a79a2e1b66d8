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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Cron         CronConfig
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
	Env          string `envconfig:"MINIMALL_APP_ENV" required:"true"`
	Port         string `envconfig:"MINIMALL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MINIMALL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MINIMALL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"MINIMALL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"MINIMALL_DB_DSN"`
	Driver string `envconfig:"MINIMALL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MINIMALL_DB_HOST"`
	LegacyPort     int    `envconfig:"MINIMALL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MINIMALL_DB_USER"`
	LegacyPassword string `envconfig:"MINIMALL_DB_PASSWORD"`
	LegacyName     string `envconfig:"MINIMALL_DB_NAME"`
	LegacySSLMode  string `envconfig:"MINIMALL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MINIMALL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MINIMALL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MINIMALL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MINIMALL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MINIMALL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MINIMALL_REDIS_ADDR"`
	Password     string        `envconfig:"MINIMALL_REDIS_PASSWORD"`
	DB           int           `envconfig:"MINIMALL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MINIMALL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MINIMALL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MINIMALL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MINIMALL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MINIMALL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MINIMALL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MINIMALL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MINIMALL_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MINIMALL_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"MINIMALL_CRON_INTERVAL" default:"24h"`
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
