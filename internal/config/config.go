package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Log      LogConfig
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Path string
}

// AuthConfig holds the authentication configuration
type AuthConfig struct {
	BcryptCost int
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string
}

// Addr returns the listen address for the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig loads the configuration from environment variables,
// falling back to defaults.
func LoadConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 9080)
	v.SetDefault("database_path", "./books.db")
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("log_level", "info")

	return &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: AuthConfig{
			BcryptCost: v.GetInt("AUTH_BCRYPT_COST"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}

// Validate checks that required configuration is present. A missing database
// path is fatal at startup: nothing in the request path can recover from it.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is not configured")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
