package config

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type Config struct {
	DB_URL          string
	Port            string
	JWTSecret       string
	TokenTTL        time.Duration
	AddressCacheTTL time.Duration
	Environment     string
	CorsConfig      cors.Options
	Redis           RedisConfig
}

var Envs = initConfig()

func initConfig() Config {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	}

	return Config{
		DB_URL:          getEnv("DB_URL", ""),
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		TokenTTL:        getDuration("TOKEN_TTL", 24*time.Hour),
		AddressCacheTTL: getDuration("ADDRESS_CACHE_TTL", 60*time.Second),
		Environment:     getEnv("ENV", "development"),
		CorsConfig:      CorsConfig(),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
	}
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Println("Invalid duration for", key, "- using fallback")
		return fallback
	}
	return d
}

func CorsConfig() cors.Options {
	return cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}
}
