package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. SHELF_DATABASE_URL maps to database.url.
const EnvPrefix = "SHELF"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files, and a
// .env file in the working directory is loaded first when present.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("auth.token_bytes", 20)
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.max_upload_bytes", 5<<20)
	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window_seconds", 60)
}

// bindEnvs registers every key explicitly. AutomaticEnv alone only resolves
// keys viper already knows about, so keys without defaults would be skipped
// by Unmarshal.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"server.allowed_origins",
		"database.url",
		"auth.bcrypt_cost",
		"auth.token_bytes",
		"storage.s3_bucket",
		"storage.s3_region",
		"storage.s3_access_key_id",
		"storage.s3_secret_access_key",
		"storage.max_upload_bytes",
		"rate_limit.redis_url",
		"rate_limit.requests",
		"rate_limit.window_seconds",
	} {
		_ = v.BindEnv(key)
	}
}
