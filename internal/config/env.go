package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret signs tokens when JWT_SECRET is unset. Local use only.
const DefaultJWTSecret = "tiketbus-dev-secret"

var ErrDefaultSecret = errors.New("JWT_SECRET wajib diisi saat ENFORCE_ADMIN_AUTH aktif")

type Env struct {
	AppAddr          string
	GinMode          string
	DatabaseURL      string
	JWTSecret        string
	CORSOrigins      []string
	RedisURL         string
	RateLimitRPS     float64
	StrictRefs       bool
	EnforceAdminAuth bool
	LogLevel         string
}

// LoadEnv reads process env after an optional .env file.
func LoadEnv() Env {
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = DefaultJWTSecret
	}

	return Env{
		AppAddr:          appAddr,
		GinMode:          strings.TrimSpace(os.Getenv("GIN_MODE")),
		DatabaseURL:      strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:        secret,
		CORSOrigins:      splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		RateLimitRPS:     parseFloat(os.Getenv("RATE_LIMIT_RPS")),
		StrictRefs:       parseBool(os.Getenv("BOOKING_STRICT_REFS")),
		EnforceAdminAuth: parseBool(os.Getenv("ENFORCE_ADMIN_AUTH")),
		LogLevel:         strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
	}
}

// Validate rejects settings the server must not start with.
func (e Env) Validate() error {
	if e.EnforceAdminAuth && (e.JWTSecret == "" || e.JWTSecret == DefaultJWTSecret) {
		return ErrDefaultSecret
	}
	return nil
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
