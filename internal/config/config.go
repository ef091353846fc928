package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config holds process configuration loaded from the environment
type Config struct {
	MongoURI       string
	MongoDB        string
	RedisURI       string
	Port           string
	JWTSecret      string
	LogMode        string
	StoreBackend   string
	AssessmentType string
	Autosave       bool
	SnapshotMaxAge time.Duration
	TokenTTL       time.Duration
	ReportSeed     int64
	ReportTables   string
	AllowedOrigins string
	SessionIdle    time.Duration
	SweepInterval  time.Duration
}

// Load reads configuration from the environment with defaults
func Load() *Config {
	return &Config{
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "neuroassess"),
		RedisURI:       getEnv("REDIS_URI", "localhost:6379"),
		Port:           getEnv("PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		LogMode:        getEnv("LOG_MODE", "dev"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", StoreRedis)),
		AssessmentType: getEnv("ASSESSMENT_TYPE", "personality"),
		Autosave:       getBool("AUTOSAVE", true),
		SnapshotMaxAge: getDuration("SNAPSHOT_MAX_AGE", 24*time.Hour),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		ReportSeed:     getInt64("REPORT_SEED", 1),
		ReportTables:   getEnv("REPORT_TABLES", ""),
		AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		SessionIdle:    getDuration("SESSION_IDLE", 30*time.Minute),
		SweepInterval:  getDuration("SWEEP_INTERVAL", time.Minute),
	}
}

// RedisAddr strips an optional redis:// scheme from RedisURI
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURI, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultVal
}

func getInt64(key string, defaultVal int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return n
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultVal
}
