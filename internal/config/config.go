// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Uzipoo/ToDo-app/internal/database"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	GRPCPort        string        `yaml:"grpc_port"`
	HTTPPort        string        `yaml:"http_port"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	DBName      string `yaml:"name"`
	SSLMode     string `yaml:"ssl_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			GRPCPort:        "50051",
			HTTPPort:        "8080",
			Environment:     "development",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:      DriverSQLite,
			SQLitePath:  "todo.db",
			Host:        "localhost",
			Port:        5432,
			User:        "postgres",
			Password:    "postgres",
			DBName:      "todo",
			SSLMode:     "disable",
			AutoMigrate: true,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Server.GRPCPort = getEnv("GRPC_PORT", cfg.Server.GRPCPort)
	cfg.Server.HTTPPort = getEnv("HTTP_PORT", cfg.Server.HTTPPort)
	cfg.Server.Environment = getEnv("ENVIRONMENT", cfg.Server.Environment)
	cfg.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Database.Driver = getEnv("STORAGE_DRIVER", cfg.Database.Driver)
	cfg.Database.SQLitePath = getEnv("SQLITE_PATH", cfg.Database.SQLitePath)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvAsInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSL_MODE", cfg.Database.SSLMode)
	cfg.Database.AutoMigrate = getEnvAsBool("AUTO_MIGRATE", cfg.Database.AutoMigrate)

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ValidateConfig checks the configuration before use.
func (c *Config) ValidateConfig() error {
	var errs []error

	if c.Server.GRPCPort == "" {
		errs = append(errs, errors.New("grpc port is required"))
	}
	if c.Server.HTTPPort == "" {
		errs = append(errs, errors.New("http port is required"))
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite path is required for the sqlite3 driver"))
		}
	case DriverPostgres, DriverPgx:
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, fmt.Errorf("database host and name are required for the %s driver", c.Database.Driver))
		}
		if c.Database.Port <= 0 {
			errs = append(errs, fmt.Errorf("invalid database port %d", c.Database.Port))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Database.Driver))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// ToDatabaseConfig converts to the database package's connection config.
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Driver:     c.Database.Driver,
		SQLitePath: c.Database.SQLitePath,
		Host:       c.Database.Host,
		Port:       c.Database.Port,
		User:       c.Database.User,
		Password:   c.Database.Password,
		DBName:     c.Database.DBName,
		SSLMode:    c.Database.SSLMode,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15s", "1m")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}
