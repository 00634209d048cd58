package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds everything the site needs at startup.
type Config struct {
	Env               string
	HTTPPort          string
	LogLevel          string
	DatabaseURL       string
	StaticDir         string
	ImagesDir         string
	CVPath            string
	AdminUsername     string
	AdminPasswordHash []byte
	JWTSecret         string
	SessionTTL        time.Duration
	RoleInterval      time.Duration
	SubmitDelay       time.Duration
	RateLimitLimit    int64
	RateLimitPeriod   time.Duration
	AllowedOrigins    []string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env not found, using environment: %v", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:           env,
		HTTPPort:      getEnv("HTTP_PORT", getEnv("PORT", "8080")),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", "portfolio.db"),
		StaticDir:     getEnv("STATIC_DIR", "./static"),
		ImagesDir:     getEnv("IMAGES_DIR", "./images"),
		CVPath:        getEnv("CV_PATH", "./static/KaueOenning-Curriculum.pdf"),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
	}

	var err error
	if cfg.SessionTTL, err = parseDuration("SESSION_TTL", "30m"); err != nil {
		return nil, err
	}
	if cfg.RoleInterval, err = parseDuration("ROLE_INTERVAL", "3s"); err != nil {
		return nil, err
	}
	if cfg.SubmitDelay, err = parseDuration("SUBMIT_DELAY", "2s"); err != nil {
		return nil, err
	}
	if cfg.RateLimitPeriod, err = parseDuration("RATE_LIMIT_PERIOD", "1m"); err != nil {
		return nil, err
	}
	if cfg.RateLimitLimit, err = parseInt64("RATE_LIMIT_LIMIT", "5"); err != nil {
		return nil, err
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	password := getEnv("ADMIN_PASSWORD", "")
	passwordHash := getEnv("ADMIN_PASSWORD_HASH", "")

	if env == "production" {
		if len(jwtSecret) < 32 {
			return nil, fmt.Errorf("config: JWT_SECRET is required and must be at least 32 characters in production")
		}
		if password == "" && passwordHash == "" {
			return nil, fmt.Errorf("config: ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in production")
		}
	} else {
		if jwtSecret == "" {
			jwtSecret = "development-only-secret-change-me-in-production"
			log.Printf("config: WARNING - using default JWT_SECRET")
		}
		if password == "" && passwordHash == "" {
			password = "admin123"
			log.Printf("config: WARNING - using default admin password")
		}
	}
	cfg.JWTSecret = jwtSecret

	switch {
	case passwordHash != "":
		cfg.AdminPasswordHash = []byte(passwordHash)
	default:
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("config: hash admin password: %w", err)
		}
		cfg.AdminPasswordHash = hash
	}

	if origins := getEnv("ALLOWED_ORIGINS", ""); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	return cfg, nil
}

// IsProduction reports whether the site runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	v := getEnv(key, fallback)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", key, v)
	}
	return d, nil
}

func parseInt64(key, fallback string) (int64, error) {
	v := getEnv(key, fallback)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, v, err)
	}
	return n, nil
}
