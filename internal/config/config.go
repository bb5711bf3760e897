package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvFileVar names the environment variable that overrides the dotenv path.
const EnvFileVar = "ENV_FILE"

// DefaultEnvFile is the dotenv file read at startup and rewritten by the
// refresh-token helper.
const DefaultEnvFile = ".env"

// Config holds all application configuration loaded from the environment.
type Config struct {
	// Environment
	Env string `koanf:"env"` // "development", "production", etc.

	// Server
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Logging
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"` // "json" or "console"

	// CORS
	CORSOrigins string `koanf:"cors_origins"` // Comma-separated allowed origins

	// Rate limiting
	RateLimitMax    int           `koanf:"rate_limit_max"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	RedisURL        string        `koanf:"redis_url"` // Shared limiter storage, in-memory when empty

	// Lookup history, disabled when empty
	DatabaseURL string `koanf:"database_url"`

	// Google Ads API
	GoogleAdsClientID        string `koanf:"google_ads_client_id"`
	GoogleAdsClientSecret    string `koanf:"google_ads_client_secret"`
	GoogleAdsDeveloperToken  string `koanf:"google_ads_developer_token"`
	GoogleAdsRefreshToken    string `koanf:"google_ads_refresh_token"`
	GoogleAdsLoginCustomerID string `koanf:"google_ads_login_customer_id"`
	GoogleAdsCustomerID      string `koanf:"google_ads_customer_id"` // defaults to the login customer id
	GoogleAdsAPIVersion      string `koanf:"google_ads_api_version"`
	GoogleAdsEndpoint        string `koanf:"google_ads_endpoint"`

	// Background credentials check, disabled when zero
	CredentialsCheckInterval time.Duration `koanf:"credentials_check_interval"`

	// EnvFile is the dotenv file the values above were layered from.
	EnvFile string `koanf:"env_file"`
}

func defaultConfig() *Config {
	return &Config{
		Env:                      "development",
		Host:                     "",
		Port:                     3000,
		LogLevel:                 "info",
		LogFormat:                "",
		CORSOrigins:              "*",
		RateLimitMax:             100,
		RateLimitWindow:          time.Minute,
		GoogleAdsAPIVersion:      "v20",
		GoogleAdsEndpoint:        "https://googleads.googleapis.com",
		CredentialsCheckInterval: 30 * time.Minute,
		EnvFile:                  DefaultEnvFile,
	}
}

// Load reads configuration from defaults, the optional dotenv file and the
// process environment, in increasing order of priority.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	envFile := os.Getenv(EnvFileVar)
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := k.Load(file.Provider(envFile), dotenv.ParserEnv("", ".", envKey)); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat env file %s: %w", envFile, err)
	}

	if err := k.Load(env.ProviderWithValue("", ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.EnvFile = envFile

	if cfg.GoogleAdsCustomerID == "" {
		cfg.GoogleAdsCustomerID = cfg.GoogleAdsLoginCustomerID
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
		if cfg.IsDev() {
			cfg.LogFormat = "console"
		}
	}

	return cfg, nil
}

// envKey maps GOOGLE_ADS_CLIENT_ID to google_ads_client_id.
func envKey(key string) string {
	return strings.ToLower(key)
}

// envValue skips variables that are set but empty.
func envValue(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	return envKey(key), value
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// ServerAddr returns the listen address built from HOST and PORT.
func (c *Config) ServerAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MissingCredentials lists the Google Ads variables that are not set.
func (c *Config) MissingCredentials() []string {
	var missing []string
	for _, v := range []struct {
		name  string
		value string
	}{
		{"GOOGLE_ADS_CLIENT_ID", c.GoogleAdsClientID},
		{"GOOGLE_ADS_CLIENT_SECRET", c.GoogleAdsClientSecret},
		{"GOOGLE_ADS_DEVELOPER_TOKEN", c.GoogleAdsDeveloperToken},
		{"GOOGLE_ADS_REFRESH_TOKEN", c.GoogleAdsRefreshToken},
		{"GOOGLE_ADS_LOGIN_CUSTOMER_ID", c.GoogleAdsLoginCustomerID},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	return missing
}
