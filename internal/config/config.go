package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration read at startup
type Config struct {
	HTTPPort string
	LogMode  string

	RedisAddr     string // empty keeps sessions in memory
	RedisPassword string
	MongoURI      string // empty disables the assessment archive
	MongoDatabase string

	ModelPath  string
	JWTSecret  string
	SessionTTL time.Duration

	CORS CORSConfig

	AI *AIConfig
}

// CORSConfig holds the Access-Control-Allow-* header values
type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// Load reads .env (when present) and the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, relying on system env vars")
	}

	return &Config{
		HTTPPort:      getEnv("PORT", "8080"),
		LogMode:       getEnv("LOG_MODE", "dev"),
		RedisAddr:     normalizeRedisAddr(getEnv("REDIS_URI", "")),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDatabase: getEnv("MONGO_DATABASE", "socialimpact"),
		ModelPath:     getEnv("MODEL_PATH", "models/wellness_model.yaml"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 2*time.Hour),
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET, POST, DELETE, OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type, Authorization"),
		},
		AI: DefaultAIConfig(),
	}
}

// Remove redis:// prefix if present
func normalizeRedisAddr(addr string) string {
	return strings.TrimPrefix(addr, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}

// getEnvDuration accepts Go durations ("1500ms") or plain seconds ("20")
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
