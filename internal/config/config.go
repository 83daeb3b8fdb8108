package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port    string
	GinMode string

	DatabaseDriver string
	DatabaseURL    string

	JWTSecret      string
	AccessTokenTTL time.Duration

	PageSize    int
	MaxPageSize int

	LogLevel string

	AWSBucket          string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// S3Enabled indique si un bucket a été configuré pour les photos de profil
func (c *Config) S3Enabled() bool {
	return c.AWSBucket != "" && c.AWSRegion != ""
}

// LoadConfig lit le fichier .env (s'il existe) puis les variables d'environnement.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("ACCESS_TOKEN_TTL", "24h")
	v.SetDefault("PAGE_SIZE", 10)
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("LOG_LEVEL", "INFO")

	cfg := &Config{
		Port:               v.GetString("PORT"),
		GinMode:            v.GetString("GIN_MODE"),
		DatabaseDriver:     strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		AccessTokenTTL:     v.GetDuration("ACCESS_TOKEN_TTL"),
		PageSize:           v.GetInt("PAGE_SIZE"),
		MaxPageSize:        v.GetInt("MAX_PAGE_SIZE"),
		LogLevel:           strings.ToUpper(v.GetString("LOG_LEVEL")),
		AWSBucket:          v.GetString("AWS_BUCKET_NAME"),
		AWSRegion:          v.GetString("AWS_REGION"),
		AWSAccessKeyID:     v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: v.GetString("AWS_SECRET_ACCESS_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL manquant"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET manquant"))
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER non supporté : %q", c.DatabaseDriver))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL doit être positif"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, errors.New("PAGE_SIZE doit être positif"))
	}
	if c.MaxPageSize < c.PageSize {
		errs = append(errs, errors.New("MAX_PAGE_SIZE doit être >= PAGE_SIZE"))
	}
	return errors.Join(errs...)
}
