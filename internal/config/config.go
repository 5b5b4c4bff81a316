package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	HTTPAddr       string
	MongoURI       string
	DBName         string
	AppURL         string
	JWTSecret      string
	LoginTokenTTL  time.Duration
	AccessTokenTTL time.Duration
	RefreshTTL     time.Duration
	ResetTTL       time.Duration
	AllowedOrigins []string
	AuthRateLimit  int
	AuthRateWindow time.Duration
	RedisAddr      string
	RequestTimeout time.Duration
	BcryptCost     int
	TOTPIssuer     string
	SMTPAddr       string
	SMTPFrom       string
	SeedAdminEmail string
	SeedAdminPass  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "dev")

	cfg := &Config{
		Env:            env,
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("DATABASE_NAME", "laundry_management"),
		AppURL:         getEnv("APP_URL", "http://localhost:3000"),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		LoginTokenTTL:  getDurationEnv("LOGIN_TOKEN_TTL", 7*24*time.Hour),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:     getDurationEnv("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		ResetTTL:       getDurationEnv("RESET_TOKEN_TTL", time.Hour),
		AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		AuthRateLimit:  getIntEnv("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: getDurationEnv("AUTH_RATE_WINDOW", time.Minute),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 5*time.Second),
		BcryptCost:     getIntEnv("BCRYPT_COST", 12),
		TOTPIssuer:     getEnv("TOTP_ISSUER", "LaundryPro"),
		SMTPAddr:       getEnv("SMTP_ADDR", ""),
		SMTPFrom:       getEnv("SMTP_FROM", ""),
		SeedAdminEmail: getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPass:  getEnv("SEED_ADMIN_PASSWORD", ""),
	}

	// Refusing to start beats signing tokens with a weak default.
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.AuthRateLimit <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
