package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	Cache CacheConfig
	DB    DBConfig
	Redis RedisConfig
	Sync  SyncConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case CacheBackendDB, CacheBackendRedis, CacheBackendMemory:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Redis.URL == "" {
		return fmt.Errorf("%s is required when the cache backend is redis", EnvRedisURL)
	}
	switch c.DB.Driver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("unknown db driver %q", c.DB.Driver)
	}
	if c.DB.Driver == DBDriverPostgres && c.DB.DSN == "" {
		return fmt.Errorf("%s is required when the db driver is postgres", EnvDBDSN)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"STOCKROOM_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKROOM_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOCKROOM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKROOM_LOG_WARN_STACK" default:"false"`

	// CORSOrigins is appended to the built-in local dev origins.
	CORSOrigins []string `envconfig:"STOCKROOM_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CacheConfig selects the local cache backend and the two fixed keys the
// item and group collections persist under.
type CacheConfig struct {
	Backend   string `envconfig:"STOCKROOM_CACHE_BACKEND" default:"db"`
	ItemsKey  string `envconfig:"STOCKROOM_CACHE_ITEMS_KEY" default:"stockroom.items"`
	GroupsKey string `envconfig:"STOCKROOM_CACHE_GROUPS_KEY" default:"stockroom.groups"`
}

type DBConfig struct {
	Driver string `envconfig:"STOCKROOM_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"STOCKROOM_DB_DSN" default:"stockroom.db"`

	MaxOpenConns    int           `envconfig:"STOCKROOM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"STOCKROOM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKROOM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKROOM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOCKROOM_REDIS_URL"`
	Password     string        `envconfig:"STOCKROOM_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOCKROOM_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOCKROOM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOCKROOM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOCKROOM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOCKROOM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOCKROOM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SyncConfig points at the spreadsheet bridge. An empty endpoint disables
// the remote mirror entirely; the local cache remains the source of truth.
type SyncConfig struct {
	Endpoint    string        `envconfig:"STOCKROOM_SYNC_ENDPOINT"`
	Timeout     time.Duration `envconfig:"STOCKROOM_SYNC_TIMEOUT" default:"10s"`
	QueueDepth  int           `envconfig:"STOCKROOM_SYNC_QUEUE_DEPTH" default:"16"`
	PullOnStart bool          `envconfig:"STOCKROOM_SYNC_PULL_ON_START" default:"true"`
}

// Enabled reports whether a remote endpoint is configured.
func (s SyncConfig) Enabled() bool {
	return strings.TrimSpace(s.Endpoint) != ""
}
