package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variable names before they are
// mapped onto Config fields (ANIMELIST_DATABASE_URL -> database_url).
const EnvPrefix = "ANIMELIST_"

type Config struct {
	Env           string `koanf:"env" validate:"required"`
	Port          string `koanf:"port" validate:"required"`
	DatabaseURL   string `koanf:"database_url" validate:"required"`
	JWTSecret     string `koanf:"jwt_secret" validate:"required"`
	JWTIssuer     string `koanf:"jwt_issuer" validate:"required"`
	JWTTTLMinutes int    `koanf:"jwt_ttl_minutes" validate:"gt=0"`
	BcryptCost    int    `koanf:"bcrypt_cost" validate:"min=4,max=31"`
	RedisURL      string `koanf:"redis_url"`
	LogLevel      string `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	AutoMigrate   bool   `koanf:"auto_migrate"`
}

// Defaults returns the configuration used for every key the environment
// does not set.
func Defaults() Config {
	return Config{
		Env:           "local",
		Port:          "8080",
		JWTIssuer:     "animelist",
		JWTTTLMinutes: 60,
		BcryptCost:    10,
		LogLevel:      "info",
		AutoMigrate:   true,
	}
}

// Load reads ANIMELIST_* environment variables, optionally from a .env file
// if present, on top of Defaults and validates the result.
func Load() (Config, error) {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
