package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	AI         AIConfig
	Generation GenerationConfig `mapstructure:"generation"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	Storage    StorageConfig
	Tracing    TracingConfig   `mapstructure:"tracing"`
	CORS       CORSConfig      `mapstructure:"cors"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`

	// Runtime flags, set from the command line rather than the config file.
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`

	// Guards the hot-reloadable fields below it in ApplyReloadable. Request
	// handlers read those fields through the accessor methods, never directly,
	// because the config watcher goroutine rewrites them at runtime.
	mu sync.RWMutex
}

// ApplyReloadable copies the settings that may change at runtime from a
// freshly loaded config: the auth and webhook secrets and the generation
// section. Everything else (ports, database, routes, rate limits) is baked
// into running components and needs a restart.
func (c *Config) ApplyReloadable(newCfg *Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.JWT.Secret = newCfg.JWT.Secret
	c.Webhook.Secret = newCfg.Webhook.Secret
	c.Generation = newCfg.Generation
}

// JWTSecret returns the current token signing secret.
func (c *Config) JWTSecret() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.JWT.Secret
}

// WebhookSecret returns the current dispatch shared secret.
func (c *Config) WebhookSecret() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Webhook.Secret
}

// InternalDispatchEnabled reports whether artifact creation should invoke
// the generation worker directly.
func (c *Config) InternalDispatchEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Generation.InternalDispatch
}

// RequeueMaxAge returns the age past which pending records are re-dispatched
// by the background sweep, or zero when the sweep is disabled.
func (c *Config) RequeueMaxAge() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.Generation.RequeueAfterSeconds) * time.Second
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type AIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	// TimeoutSeconds bounds a single completion call. The generation worker
	// makes exactly one attempt per record; expiry is a terminal failure.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type GenerationConfig struct {
	// InternalDispatch makes artifact creation invoke the worker directly,
	// in addition to whatever external webhook delivery is configured.
	// Duplicate delivery is safe: the worker claims records with a
	// conditional status update.
	InternalDispatch bool `mapstructure:"internal_dispatch"`
	// RequeueAfterSeconds controls the background sweep that re-dispatches
	// records stuck in pending (e.g. a lost webhook). 0 disables the sweep.
	RequeueAfterSeconds int `mapstructure:"requeue_after_seconds"`
}

type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("STUDYFORGE")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// AI
	viper.BindEnv("ai.base_url", "AI_BASE_URL")
	viper.BindEnv("ai.api_key", "AI_API_KEY")
	viper.BindEnv("ai.model", "AI_MODEL")

	// Webhook
	viper.BindEnv("webhook.secret", "WEBHOOK_SECRET")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if cfg.AI.TimeoutSeconds <= 0 {
		cfg.AI.TimeoutSeconds = 60
	}

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Server.Mode == "release" && cfg.Webhook.Secret == "" {
		return nil, fmt.Errorf("webhook secret must be set in release mode")
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}
