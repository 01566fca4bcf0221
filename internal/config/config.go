package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Driver       string
	DSN          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	Timeout      time.Duration
	MaxOpenConns int
	AutoMigrate  bool
}

// Configured is false when no descriptor at all was supplied; the dashboard
// then runs in "no database configured" mode.
func (c DBConfig) Configured() bool {
	return strings.TrimSpace(c.DSN) != "" || strings.TrimSpace(c.Host) != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type Config struct {
	Env  string
	Port string

	DB    DBConfig
	Redis RedisConfig

	CacheTTL    time.Duration
	AliasesFile string
	SkipRows    int
	MaxUploadMB int
	AdminAPIKey string
	AdminSecret string
	LogLevel    string
	LogFile     string
}

func (c *Config) IsDev() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	dsn := getEnv("DB_DSN", "")
	if dsn == "" {
		dsn = getEnv("DATABASE_URL", "")
	}
	secret := getEnv("JWT_ADMIN_SECRET", "")
	if secret == "" {
		secret = getEnv("SECRET_KEY", "")
	}

	return &Config{
		Env:  strings.ToLower(getEnv("APP_ENV", "")),
		Port: getEnv("PORT", "8080"),
		DB: DBConfig{
			Driver:       getEnv("DB_DRIVER", ""),
			DSN:          dsn,
			Host:         getEnv("DB_HOST", ""),
			Port:         getEnv("DB_PORT", ""),
			User:         getEnv("DB_USER", ""),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", ""),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			Timeout:      getEnvDuration("DB_TIMEOUT", 10*time.Second),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 5),
			AutoMigrate:  getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		CacheTTL:    getEnvDuration("CACHE_TTL", 10*time.Minute),
		AliasesFile: getEnv("ALIASES_FILE", ""),
		SkipRows:    getEnvInt("INGEST_SKIP_ROWS", 0),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 32),
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
		AdminSecret: secret,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("600").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if n, err := strconv.Atoi(val); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
