package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host                   string
	Port                   string
	User                   string
	Password               string
	Database               string
	SSLMode                string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// PermissionTTLSeconds bounds how stale a cached permission grant may be.
	PermissionTTLSeconds int
}

type RateLimitConfig struct {
	RequestsPerWindow int
	WindowSeconds     int
}

// DSN builds the pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// Addr returns the redis host:port pair.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("PERMISSION_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
			Env:  viper.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:                   viper.GetString("DB_HOST"),
			Port:                   viper.GetString("DB_PORT"),
			User:                   viper.GetString("DB_USER"),
			Password:               viper.GetString("DB_PASSWORD"),
			Database:               viper.GetString("DB_DATABASE"),
			SSLMode:                viper.GetString("DB_SSLMODE"),
			MaxOpenConns:           viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:           viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeMinutes: viper.GetInt("DB_CONN_MAX_LIFETIME_MINUTES"),
		},
		Redis: RedisConfig{
			Host:                 viper.GetString("REDIS_HOST"),
			Port:                 viper.GetString("REDIS_PORT"),
			Password:             viper.GetString("REDIS_PASSWORD"),
			DB:                   viper.GetInt("REDIS_DB"),
			PermissionTTLSeconds: viper.GetInt("PERMISSION_CACHE_TTL_SECONDS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: viper.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds:     viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}
}
