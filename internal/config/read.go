package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/nDmitry/wpgallery/internal/entity"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort = "8080"
	DefaultSite = "discover.wordpress.com"
)

// Read builds the configuration from defaults, the optional YAML file at
// configPath and environment variables, in that order of precedence.
func Read(configPath string) (*entity.Config, error) {
	config := defaults()

	if configPath != "" {
		contents, err := os.ReadFile(configPath)

		if err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}

		if err = yaml.Unmarshal(contents, &config); err != nil {
			return nil, fmt.Errorf("could not parse config file: %w", err)
		}
	}

	if err := applyEnv(&config); err != nil {
		return nil, err
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func defaults() entity.Config {
	return entity.Config{
		Port:        DefaultPort,
		APIBaseURL:  "https://public-api.wordpress.com",
		DefaultSite: DefaultSite,
		PerPage:     entity.PerPageDefault,
		LogLevel:    "info",
	}
}

func applyEnv(config *entity.Config) error {
	config.Port = getEnv("HTTP_SERVER_PORT", config.Port)
	config.APIBaseURL = getEnv("API_BASE_URL", config.APIBaseURL)
	config.DefaultSite = getEnv("DEFAULT_SITE", config.DefaultSite)
	config.UserAgent = getEnv("USER_AGENT", config.UserAgent)
	config.RedisAddr = getEnv("REDIS_ADDR", config.RedisAddr)
	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)

	if v := os.Getenv("PER_PAGE"); v != "" {
		n, err := strconv.Atoi(v)

		if err != nil {
			return fmt.Errorf("PER_PAGE must be a valid integer")
		}

		config.PerPage = n
	}

	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			return fmt.Errorf("FETCH_TIMEOUT must be a valid duration: %w", err)
		}

		config.FetchTimeout = d
	}

	return nil
}

func validate(config *entity.Config) error {
	if config.Port == "" {
		return fmt.Errorf("port is required")
	}

	if config.DefaultSite == "" {
		return fmt.Errorf("default site is required")
	}

	if config.PerPage <= 0 {
		return fmt.Errorf("per page must be positive, got %d", config.PerPage)
	}

	if config.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout must be non-negative")
	}

	u, err := url.Parse(config.APIBaseURL)

	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url must be absolute, got %q", config.APIBaseURL)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
