package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; only DATABASE_URL is required.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	MigrationsPath string

	// Bulk processing. The pool is created once and shared by every call.
	ProcessWorkers   int
	ProcessQueueSize int
	// Maximum store round-trips per second across all units; 0 disables the limit.
	ProcessRateLimit int
	ProcessTimeout   time.Duration
	// Period of the background ProcessAll run; 0 disables it.
	ProcessInterval time.Duration
}

// configFileEnv names an optional config file (any format viper reads).
// Environment variables still win over values from the file.
const configFileEnv = "ITEMSVC_CONFIG"

func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString(configFileEnv); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	dbURL := v.GetString("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		HTTPPort:        v.GetString("HTTP_PORT"),
		ReadTimeout:     v.GetDuration("READ_TIMEOUT"),
		WriteTimeout:    v.GetDuration("WRITE_TIMEOUT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		DatabaseURL:    dbURL,
		DBMaxConns:     v.GetInt32("DB_MAX_CONNS"),
		DBMinConns:     v.GetInt32("DB_MIN_CONNS"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),

		ProcessWorkers:   v.GetInt("PROCESS_WORKERS"),
		ProcessQueueSize: v.GetInt("PROCESS_QUEUE_SIZE"),
		ProcessRateLimit: v.GetInt("PROCESS_RATE_LIMIT"),
		ProcessTimeout:   v.GetDuration("PROCESS_TIMEOUT"),
		ProcessInterval:  v.GetDuration("PROCESS_INTERVAL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("READ_TIMEOUT", 5*time.Second)
	// Must outlive PROCESS_TIMEOUT or /items/process responses get cut off.
	v.SetDefault("WRITE_TIMEOUT", 60*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")

	v.SetDefault("PROCESS_WORKERS", 10)
	v.SetDefault("PROCESS_QUEUE_SIZE", 1000)
	v.SetDefault("PROCESS_RATE_LIMIT", 0)
	v.SetDefault("PROCESS_TIMEOUT", 30*time.Second)
	v.SetDefault("PROCESS_INTERVAL", time.Duration(0))
}

func (c *Config) validate() error {
	if c.ProcessWorkers < 1 {
		return fmt.Errorf("PROCESS_WORKERS must be at least 1, got %d", c.ProcessWorkers)
	}
	if c.ProcessQueueSize < 1 {
		return fmt.Errorf("PROCESS_QUEUE_SIZE must be at least 1, got %d", c.ProcessQueueSize)
	}
	if c.ProcessRateLimit < 0 {
		return fmt.Errorf("PROCESS_RATE_LIMIT must not be negative, got %d", c.ProcessRateLimit)
	}
	if c.ProcessTimeout <= 0 {
		return fmt.Errorf("PROCESS_TIMEOUT must be positive, got %s", c.ProcessTimeout)
	}
	if c.ProcessInterval < 0 {
		return fmt.Errorf("PROCESS_INTERVAL must not be negative, got %s", c.ProcessInterval)
	}
	return nil
}
