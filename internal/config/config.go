package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/adherence/internal/adherence"

	"github.com/BurntSushi/toml"
)

var ErrMissingEnv = errors.New("no config for env")

const (
	defaultPort                    = 9000
	defaultMetricsPort             = "2112"
	defaultCacheSizeMB             = 32
	defaultCacheExpireSeconds      = 10 * 60
	defaultRedisCacheTTLSeconds    = 60 * 60
	defaultMaxRangeDays            = 42
	defaultEvaluateRateLimitPerMin = 30
	defaultSampleSeed              = 11
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost    string `toml:"postgres_host"`
	PostgresPort    string `toml:"postgres_port"`
	PostgresUser    string `toml:"postgres_user"`
	PostgresDBName  string `toml:"postgres_db_name"`
	PostgresSSLMode string `toml:"postgres_ssl_mode"`
	RunMigrations   bool   `toml:"run_migrations"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// adherence
	Weights                        adherence.Weights `toml:"weights"`
	MaxRangeDays                   int               `toml:"max_range_days"`
	CacheSizeMB                    int               `toml:"cache_size_mb"`
	CacheExpireSeconds             int               `toml:"cache_expire_seconds"`
	RedisCacheTTLSeconds           int               `toml:"redis_cache_ttl_seconds"`
	SampleFallback                 bool              `toml:"sample_fallback"`
	SampleSeed                     int64             `toml:"sample_seed"`
	EvaluateRateLimitAllowedPerMin int               `toml:"evaluate_rate_limit_allowed_per_min"`
	MCPEnabled                     bool              `toml:"mcp_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the validated config of the given env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is Load for config held in memory.
func Parse(env, data string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s config: %w", env, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = defaultMetricsPort
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.PostgresSSLMode == "" {
		c.PostgresSSLMode = "disable"
	}
	if c.Weights.IsZero() {
		c.Weights = adherence.DefaultWeights
	}
	if c.MaxRangeDays == 0 {
		c.MaxRangeDays = defaultMaxRangeDays
	}
	if c.CacheSizeMB == 0 {
		c.CacheSizeMB = defaultCacheSizeMB
	}
	if c.CacheExpireSeconds == 0 {
		c.CacheExpireSeconds = defaultCacheExpireSeconds
	}
	if c.RedisCacheTTLSeconds == 0 {
		c.RedisCacheTTLSeconds = defaultRedisCacheTTLSeconds
	}
	if c.SampleSeed == 0 {
		c.SampleSeed = defaultSampleSeed
	}
	if c.EvaluateRateLimitAllowedPerMin == 0 {
		c.EvaluateRateLimitAllowedPerMin = defaultEvaluateRateLimitPerMin
	}
}

func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.MaxRangeDays < adherence.MinTrendDays {
		return fmt.Errorf("max range days must be at least %d, got %d", adherence.MinTrendDays, c.MaxRangeDays)
	}
	if c.CacheSizeMB < 0 || c.CacheExpireSeconds < 0 || c.RedisCacheTTLSeconds < 0 {
		return errors.New("cache settings cannot be negative")
	}
	return nil
}
