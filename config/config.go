package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	MongoURI      string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"marketplace"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	Media  MediaConfig
	Review ReviewConfig
}

// MediaConfig selects and configures the hosted media backend.
type MediaConfig struct {
	// Backend is "cloudinary" or "memory".
	Backend        string        `env:"MEDIA_BACKEND" envDefault:"memory"`
	CloudName      string        `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey         string        `env:"CLOUDINARY_API_KEY"`
	APISecret      string        `env:"CLOUDINARY_API_SECRET"`
	BaseURL        string        `env:"CLOUDINARY_BASE_URL" envDefault:"https://api.cloudinary.com"`
	Timeout        time.Duration `env:"MEDIA_TIMEOUT" envDefault:"30s"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

// ReviewConfig tunes the review workflow.
type ReviewConfig struct {
	RequireOrderOwner bool `env:"REVIEW_REQUIRE_ORDER_OWNER" envDefault:"true"`
	MaxAttempts       int  `env:"REVIEW_MAX_ATTEMPTS" envDefault:"5"`
}

// LoadEnv loads environment variables from a .env file, or from the file
// named by ENV_FILE.
func LoadEnv() {
	if err := godotenv.Load(GetEnv("ENV_FILE", ".env")); err != nil {
		slog.Debug("no .env file loaded", slog.String("error", err.Error()))
	}
}

// GetEnv retrieves environment variables with a fallback
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Load parses the environment into a Config and checks the settings the
// server cannot start without.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration combinations that cannot work.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.Media.Backend {
	case "memory":
	case "cloudinary":
		if c.Media.CloudName == "" || c.Media.APIKey == "" || c.Media.APISecret == "" {
			return fmt.Errorf("cloudinary backend requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("unknown MEDIA_BACKEND %q", c.Media.Backend)
	}
	if c.Review.MaxAttempts < 1 {
		return fmt.Errorf("REVIEW_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
