package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Auth     AuthConfig     `mapstructure:"auth"`
	AI       AIConfig       `mapstructure:"ai"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxResumes     int      `mapstructure:"max_resumes"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// AuthConfig 包含 JWT 密钥与登录保护配置。
type AuthConfig struct {
	PrivateKeyPEM         string `mapstructure:"private_key_pem"`
	PublicKeyPEM          string `mapstructure:"public_key_pem"`
	AccessTokenTTLMinutes int    `mapstructure:"access_token_ttl_minutes"`
	RefreshTokenTTLHours  int    `mapstructure:"refresh_token_ttl_hours"`
	LoginRateLimitPerHour int    `mapstructure:"login_rate_limit_per_hour"`
	LoginLockThreshold    int    `mapstructure:"login_lock_threshold"`
	LoginLockTTLMinutes   int    `mapstructure:"login_lock_ttl_minutes"`
	CookieDomain          string `mapstructure:"cookie_domain"`
	ClamdAddr             string `mapstructure:"clamd_addr"`
}

// AIConfig 包含调用外部补全服务（Groq，OpenAI 兼容协议）所需的配置。
// APIKey 支持逗号分隔多个凭证；编号凭证（GROQ_API_KEY_1..N）在 Load 时
// 被显式探测并合并进 APIKeys，之后进程内不再读取环境变量。
type AIConfig struct {
	APIKey         string   `mapstructure:"api_key"`
	APIKeys        []string `mapstructure:"api_keys"`
	BaseURL        string   `mapstructure:"base_url"`
	Model          string   `mapstructure:"model"`
	PortfolioModel string   `mapstructure:"portfolio_model"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// maxIndexedAPIKeys 限定编号凭证的探测范围（GROQ_API_KEY_1..GROQ_API_KEY_32）。
const maxIndexedAPIKeys = 32

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.AI.APIKeys = AggregateAPIKeys(cfg.AI.APIKey, indexedAPIKeys(v))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// AggregateAPIKeys 合并主凭证（允许逗号分隔）与编号凭证，
// 去除空白与引号后丢弃空项。顺序稳定：主凭证在前，编号凭证按序号递增。
func AggregateAPIKeys(primary string, indexed []string) []string {
	raw := make([]string, 0, len(indexed)+4)
	raw = append(raw, strings.Split(primary, ",")...)
	raw = append(raw, indexed...)

	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		if k = sanitizeAPIKey(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// sanitizeAPIKey 去掉凭证中的空白字符与引号（.env 文件常见的粘贴残留）。
func sanitizeAPIKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, key)
}

// indexedAPIKeys 在固定范围内探测 GROQ_API_KEY_<n>。
// 有界显式探测保证每个进程内顺序稳定，避免对整个环境变量表做扫描。
func indexedAPIKeys(v *viper.Viper) []string {
	keys := make([]string, 0, 4)
	for i := 1; i <= maxIndexedAPIKeys; i++ {
		name := fmt.Sprintf("ai.api_key_%d", i)
		if err := v.BindEnv(name, fmt.Sprintf("GROQ_API_KEY_%d", i)); err != nil {
			continue
		}
		if val := v.GetString(name); val != "" {
			keys = append(keys, val)
		}
	}
	return keys
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.max_resumes", 10)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "foliogen")
	v.SetDefault("database.user", "foliogen")
	v.SetDefault("database.password", "foliogen")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.public_endpoint", "http://localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "portfolios")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("auth.access_token_ttl_minutes", 15)
	v.SetDefault("auth.refresh_token_ttl_hours", 720)
	v.SetDefault("auth.login_rate_limit_per_hour", 10)
	v.SetDefault("auth.login_lock_threshold", 5)
	v.SetDefault("auth.login_lock_ttl_minutes", 15)
	v.SetDefault("ai.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.model", "llama-3.1-8b-instant")
	v.SetDefault("ai.portfolio_model", "llama-3.3-70b-versatile")
	v.SetDefault("ai.timeout_seconds", 60)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                       "API_PORT",
		"api.allowed_origins":            "API_ALLOWED_ORIGINS",
		"api.max_resumes":                "API_MAX_RESUMES",
		"database.host":                  "DATABASE_HOST",
		"database.port":                  "DATABASE_PORT",
		"database.name":                  "POSTGRES_DB",
		"database.user":                  "POSTGRES_USER",
		"database.password":              "POSTGRES_PASSWORD",
		"database.sslmode":               "DATABASE_SSLMODE",
		"redis.host":                     "REDIS_HOST",
		"redis.port":                     "REDIS_PORT",
		"minio.endpoint":                 "MINIO_ENDPOINT",
		"minio.public_endpoint":          "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":            "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":        "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                  "MINIO_USE_SSL",
		"minio.bucket":                   "MINIO_BUCKET",
		"minio.region":                   "MINIO_REGION",
		"minio.bucket_lookup":            "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket":       "MINIO_AUTO_CREATE_BUCKET",
		"auth.private_key_pem":           "JWT_PRIVATE_KEY_PEM",
		"auth.public_key_pem":            "JWT_PUBLIC_KEY_PEM",
		"auth.access_token_ttl_minutes":  "JWT_ACCESS_TTL_MINUTES",
		"auth.refresh_token_ttl_hours":   "JWT_REFRESH_TTL_HOURS",
		"auth.login_rate_limit_per_hour": "LOGIN_RATE_LIMIT_PER_HOUR",
		"auth.login_lock_threshold":      "LOGIN_LOCK_THRESHOLD",
		"auth.login_lock_ttl_minutes":    "LOGIN_LOCK_TTL_MINUTES",
		"auth.cookie_domain":             "AUTH_COOKIE_DOMAIN",
		"auth.clamd_addr":                "CLAMD_ADDR",
		"ai.api_key":                     "GROQ_API_KEY",
		"ai.base_url":                    "GROQ_BASE_URL",
		"ai.model":                       "GROQ_MODEL",
		"ai.portfolio_model":             "GROQ_PORTFOLIO_MODEL",
		"ai.timeout_seconds":             "GROQ_TIMEOUT_SECONDS",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if cfg.AI.BaseURL == "" {
		return errors.New("ai base url is required")
	}
	if cfg.AI.Model == "" {
		return errors.New("ai model is required")
	}
	if cfg.AI.PortfolioModel == "" {
		return errors.New("ai portfolio model is required")
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		return errors.New("ai timeout must be positive")
	}
	// 凭证允许为空：此时 /ai/* 生成请求会以 not_configured 失败，
	// 但服务的其余部分（简历/作品集 CRUD）仍可工作。
	return nil
}
