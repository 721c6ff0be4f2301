// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// MinRefreshIntervalMs is the lowest background refresh period allowed.
// Anything below this hammers the reporting API quota for no benefit.
const MinRefreshIntervalMs = 60000

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// Analytics data source settings
	GAPropertyID      string `mapstructure:"gapropertyid"`
	GACredentialsJSON string `mapstructure:"gacredentialsjson"`

	// Polling settings
	RefreshIntervalMs   int `mapstructure:"refreshintervalms"`
	QueryTimeoutSeconds int `mapstructure:"querytimeoutseconds"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "trafficlens")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("refreshintervalms", 300000) // 5 minutes
		v.SetDefault("querytimeoutseconds", 30)
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)

		// Bind environment variables
		v.BindEnv("appname", "TRAFFICLENS_APP_NAME")
		v.BindEnv("appport", "TRAFFICLENS_APP_PORT")
		v.BindEnv("environment", "TRAFFICLENS_ENV")
		v.BindEnv("loglevel", "TRAFFICLENS_LOG_LEVEL")
		v.BindEnv("gapropertyid", "TRAFFICLENS_GA_PROPERTY_ID")
		v.BindEnv("gacredentialsjson", "TRAFFICLENS_GA_CREDENTIALS_JSON")
		v.BindEnv("refreshintervalms", "TRAFFICLENS_REFRESH_INTERVAL_MS")
		v.BindEnv("querytimeoutseconds", "TRAFFICLENS_QUERY_TIMEOUT_SECONDS")
		v.BindEnv("logsdir", "TRAFFICLENS_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "TRAFFICLENS_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "TRAFFICLENS_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "TRAFFICLENS_LOGS_MAX_AGE_IN_DAYS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		if cfg.RefreshIntervalMs < MinRefreshIntervalMs {
			log.Printf("config: refresh interval %dms below minimum, using %dms",
				cfg.RefreshIntervalMs, MinRefreshIntervalMs)
			cfg.RefreshIntervalMs = MinRefreshIntervalMs
		}
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.QueryTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid query timeout: %d seconds", c.QueryTimeoutSeconds)
	}

	if c.GAPropertyID != "" {
		for _, r := range c.GAPropertyID {
			if r < '0' || r > '9' {
				return fmt.Errorf("invalid analytics property ID: %s", c.GAPropertyID)
			}
		}
	}

	return nil
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetPort returns the HTTP server port.
func (c *Config) GetPort() string {
	return c.AppPort
}

// GetAppName returns the application name.
func (c *Config) GetAppName() string {
	return c.AppName
}

// GetRefreshInterval returns the background refresh period.
func (c *Config) GetRefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMs) * time.Millisecond
}

// GetQueryTimeout returns the per-report query timeout.
func (c *Config) GetQueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// GetLogLevel returns the log level as a string.
func (c *Config) GetLogLevel() string {
	return string(c.LogLevel)
}

// GetLogDirectory returns the logs directory.
func (c *Config) GetLogDirectory() string {
	return c.LogsDirectory
}

// GetLogMaxSizeMB returns the max log file size in MB.
func (c *Config) GetLogMaxSizeMB() int {
	return c.LogsMaxSizeInMb
}

// GetLogMaxBackups returns the max number of log backups.
func (c *Config) GetLogMaxBackups() int {
	return c.LogsMaxBackups
}

// GetLogMaxAgeDays returns the max age in days for log files.
func (c *Config) GetLogMaxAgeDays() int {
	return c.LogsMaxAgeInDays
}

// Reset clears the cached configuration; intended for tests.
func Reset() {
	once = sync.Once{}
	cfg = nil
}
