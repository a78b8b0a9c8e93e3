package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv parses values such as "30s" or "1h". Unparseable values fall back to the default.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN renders the key/value connection string understood by the postgres driver.
func (c DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

type RateLimitConfig struct {
	Max     int
	Window  time.Duration
	Backend string // "memory" or "redis"
}

// Config is the fully resolved process configuration.
type Config struct {
	Env              string
	Port             string
	LogLevel         string
	StoreDriver      string // "postgres" or "memory"
	JWTSecret        string
	AllowOrigins     string
	ReferralMaxDepth int
	BalanceCacheTTL  time.Duration
	Database         DatabaseConfig
	Redis            RedisConfig
	RateLimit        RateLimitConfig
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Env:              GetEnv("ENV", "development"),
		Port:             GetEnv("PORT", "3000"),
		LogLevel:         GetEnv("LOG_LEVEL", "info"),
		StoreDriver:      GetEnv("STORE_DRIVER", "postgres"),
		JWTSecret:        GetEnv("JWT_SECRET", "refnet"),
		AllowOrigins:     GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		ReferralMaxDepth: GetIntEnv("REFERRAL_MAX_DEPTH", 6),
		BalanceCacheTTL:  GetDurationEnv("BALANCE_CACHE_TTL", 5*time.Minute),
		Database: DatabaseConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "refnet"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST", "localhost"),
			Port:     GetEnv("REDIS_PORT", "6379"),
			Password: GetEnv("REDIS_PASSWORD", ""),
			DB:       GetIntEnv("REDIS_DB", 0),
			Enabled:  GetEnv("REDIS_ENABLED", "true") == "true",
		},
		RateLimit: RateLimitConfig{
			Max:     GetIntEnv("RATE_LIMIT_MAX", 120),
			Window:  GetDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			Backend: GetEnv("RATE_LIMIT_BACKEND", "memory"),
		},
	}
}
