package config

// EnvPrefix is passed to envconfig; every variable below carries it already.
const EnvPrefix = "STOCKROOM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "STOCKROOM_APP_ENV"
	EnvPort         = "STOCKROOM_APP_PORT"
	EnvLogLevel     = "STOCKROOM_LOG_LEVEL"
	EnvCacheBackend = "STOCKROOM_CACHE_BACKEND"
	EnvDBDriver     = "STOCKROOM_DB_DRIVER"
	EnvDBDSN        = "STOCKROOM_DB_DSN"
	EnvRedisURL     = "STOCKROOM_REDIS_URL"
	EnvSyncEndpoint = "STOCKROOM_SYNC_ENDPOINT"
)

const (
	CacheBackendDB     = "db"
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)
