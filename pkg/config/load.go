package config

import (
	"errors"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrMissingCryptoKey is returned when no encryption key is configured
// outside development.
var ErrMissingCryptoKey = errors.New("CRYPTO_KEY_B64 must be set outside development")

// DevCryptoKeyB64 is the fallback AES key for development and tests. Never
// used when APP_ENV points at a real deployment.
const DevCryptoKeyB64 = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	path := ".env"
	if len(envFilePath) > 0 {
		path = envFilePath[0]
	}
	if err := godotenv.Load(path); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Crypto.KeyB64 == "" {
		if !cfg.IsDevelopment() {
			return nil, ErrMissingCryptoKey
		}
		logger.Warn("CRYPTO_KEY_B64 not set, using development fallback key")
		cfg.Crypto.KeyB64 = DevCryptoKeyB64
	}

	logger.Info("config loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"db", maskValue(cfg.DB.Url),
		"jwt_expiry", cfg.Jwt.Expiry,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}

func maskValue(v string) string {
	if len(v) <= 6 {
		return "****"
	}
	return v[:2] + "****" + v[len(v)-4:]
}
