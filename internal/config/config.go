package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Learning  LearningConfig  `yaml:"learning"`
	Cache     CacheConfig     `yaml:"cache"`
	Generator GeneratorConfig `yaml:"generator"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// ServerConfig holds HTTP server settings. WriteTimeout is generous
// because the generation endpoint waits on an LLM round trip.
type ServerConfig struct {
	Host              string        `yaml:"host"                env:"SERVER_HOST"                env-default:"0.0.0.0"`
	Port              int           `yaml:"port"                env:"SERVER_PORT"                env-default:"8080"`
	ReadTimeout       time.Duration `yaml:"read_timeout"        env:"SERVER_READ_TIMEOUT"        env-default:"10s"`
	WriteTimeout      time.Duration `yaml:"write_timeout"       env:"SERVER_WRITE_TIMEOUT"       env-default:"120s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"SERVER_IDLE_TIMEOUT"        env-default:"60s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"SERVER_SHUTDOWN_TIMEOUT"    env-default:"10s"`
	GenerateRateLimit int           `yaml:"generate_rate_limit" env:"SERVER_GENERATE_RATE_LIMIT" env-default:"5"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LearningConfig holds the batching and progression constants.
type LearningConfig struct {
	WordsPerBatch         int     `yaml:"words_per_batch"         env:"LEARNING_WORDS_PER_BATCH"         env-default:"50"`
	WordsPerLevel         int     `yaml:"words_per_level"         env:"LEARNING_WORDS_PER_LEVEL"         env-default:"1000"`
	MinCompletionFraction float64 `yaml:"min_completion_fraction" env:"LEARNING_MIN_COMPLETION_FRACTION" env-default:"0.8"`
}

// CacheConfig holds in-process word cache settings. TTL defaults follow
// volatility: batch stats and learned flags churn with every status
// change, the word count only moves on generation.
type CacheConfig struct {
	MaxEntries      int           `yaml:"max_entries"        env:"CACHE_MAX_ENTRIES"        env-default:"10000"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"   env:"CACHE_CLEANUP_INTERVAL"   env-default:"10m"`
	BatchTTL        time.Duration `yaml:"batch_ttl"          env:"CACHE_BATCH_TTL"          env-default:"30m"`
	StatsTTL        time.Duration `yaml:"stats_ttl"          env:"CACHE_STATS_TTL"          env-default:"15m"`
	UserWordsTTL    time.Duration `yaml:"user_words_ttl"     env:"CACHE_USER_WORDS_TTL"     env-default:"30m"`
	LearnedWordsTTL time.Duration `yaml:"learned_words_ttl"  env:"CACHE_LEARNED_WORDS_TTL"  env-default:"15m"`
	CountTTL        time.Duration `yaml:"count_ttl"          env:"CACHE_COUNT_TTL"          env-default:"1h"`
	PoolTTL         time.Duration `yaml:"pool_ttl"           env:"CACHE_POOL_TTL"           env-default:"10m"`
}

// GeneratorConfig holds LLM word generation settings.
type GeneratorConfig struct {
	APIKey    string        `yaml:"api_key"    env:"GENERATOR_API_KEY"    env-required:"true"`
	Model     string        `yaml:"model"      env:"GENERATOR_MODEL"      env-default:"claude-sonnet-4-20250514"`
	MaxTokens int           `yaml:"max_tokens" env:"GENERATOR_MAX_TOKENS" env-default:"4096"`
	Timeout   time.Duration `yaml:"timeout"    env:"GENERATOR_TIMEOUT"    env-default:"90s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-User-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
