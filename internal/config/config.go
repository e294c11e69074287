package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// AllowedOrigins feeds the CORS middleware. An empty list allows any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	// BcryptCost is the work factor used when hashing passwords.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
	// TokenBytes is the number of random bytes in a token key. Keys are hex
	// encoded, and tokens.key holds at most 128 characters.
	TokenBytes int `mapstructure:"token_bytes" validate:"required,gte=16,lte=64"`
}

// StorageConfig configures the S3 bucket used for profile images.
// Image uploads are disabled when S3Bucket is empty.
type StorageConfig struct {
	S3Bucket          string `mapstructure:"s3_bucket"`
	S3Region          string `mapstructure:"s3_region"            validate:"required_with=S3Bucket"`
	S3AccessKeyID     string `mapstructure:"s3_access_key_id"`
	S3SecretAccessKey string `mapstructure:"s3_secret_access_key" validate:"required_with=S3AccessKeyID"`
	MaxUploadBytes    int64  `mapstructure:"max_upload_bytes"     validate:"gte=0"`
}

// RateLimitConfig configures the redis-backed limiter on credential endpoints.
// The limiter is disabled when RedisURL is empty.
type RateLimitConfig struct {
	RedisURL      string `mapstructure:"redis_url"      validate:"omitempty,url"`
	Requests      int    `mapstructure:"requests"       validate:"gte=0"`
	WindowSeconds int    `mapstructure:"window_seconds" validate:"gte=0"`
}
