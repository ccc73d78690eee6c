package entity

import "time"

type Config struct {
	Port        string `yaml:"port"`
	APIBaseURL  string `yaml:"apiBaseUrl"`
	DefaultSite string `yaml:"defaultSite"`
	PerPage     int    `yaml:"perPage"`
	UserAgent   string `yaml:"userAgent"`
	RedisAddr   string `yaml:"redisAddr"`
	LogLevel    string `yaml:"logLevel"`

	// Zero means outbound requests never time out.
	FetchTimeout time.Duration `yaml:"fetchTimeout"`
}
