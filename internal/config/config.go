package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything read from the environment at startup.
type Config struct {
	Port      string
	GinMode   string
	UploadDir string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string
	TokenTTL  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// C is the process-wide configuration, set by Load.
var C *Config

func Load() (*Config, error) {
	cfg := &Config{
		Port:      getenv("PORT", "8080"),
		GinMode:   os.Getenv("GIN_MODE"),
		UploadDir: getenv("UPLOAD_DIR", "uploads"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  time.Hour,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	// The signing secret has no default on purpose: starting without one
	// would silently issue forgeable tokens.
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if v := os.Getenv("JWT_EXPIRES_HOURS"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h <= 0 {
			return nil, fmt.Errorf("invalid JWT_EXPIRES_HOURS %q", v)
		}
		cfg.TokenTTL = time.Duration(h) * time.Hour
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q", v)
		}
		cfg.RedisDB = n
	}

	C = cfg
	return cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s dbname=%s port=%s sslmode=%s password=%s",
		c.DBHost, c.DBUser, c.DBName, c.DBPort, c.DBSSLMode, c.DBPassword)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
