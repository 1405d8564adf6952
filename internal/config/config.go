package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Email    EmailConfig    `mapstructure:"email"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port" envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     int `mapstructure:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"15"`
	WriteTimeout    int `mapstructure:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"15"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10"`
	RateLimit       int `mapstructure:"rate_limit" envconfig:"SERVER_RATE_LIMIT" default:"100"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host" envconfig:"DB_HOST" default:"localhost"`
	Port            int    `mapstructure:"port" envconfig:"DB_PORT" default:"5432"`
	User            string `mapstructure:"user" envconfig:"DB_USER" default:"postgres"`
	Password        string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name            string `mapstructure:"name" envconfig:"DB_NAME" default:"clinic"`
	SSLMode         string `mapstructure:"ssl_mode" envconfig:"DB_SSL_MODE" default:"disable"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" envconfig:"DB_CONN_MAX_LIFETIME" default:"300"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `mapstructure:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"db" envconfig:"REDIS_DB" default:"0"`
	Enabled  bool   `mapstructure:"enabled" envconfig:"REDIS_ENABLED" default:"false"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret" envconfig:"JWT_SECRET" required:"true"`
	ExpiryMinutes int    `mapstructure:"expiry_minutes" envconfig:"JWT_EXPIRY_MINUTES" default:"60"`
	Issuer        string `mapstructure:"issuer" envconfig:"JWT_ISSUER" default:"clinic-api"`
}

type EmailConfig struct {
	Host     string `mapstructure:"host" envconfig:"SMTP_HOST"`
	Port     int    `mapstructure:"port" envconfig:"SMTP_PORT" default:"587"`
	Username string `mapstructure:"username" envconfig:"SMTP_USERNAME"`
	Password string `mapstructure:"password" envconfig:"SMTP_PASSWORD"`
	From     string `mapstructure:"from" envconfig:"SMTP_FROM"`
	Enabled  bool   `mapstructure:"enabled" envconfig:"SMTP_ENABLED" default:"false"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `mapstructure:"time_format" envconfig:"LOG_TIME_FORMAT"`
	Pretty     bool   `mapstructure:"pretty" envconfig:"LOG_PRETTY" default:"false"`
}

// Load reads configuration from the environment, or from a config file with
// environment overlay when a path is given.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := envconfig.Process("", &cfg); err != nil {
			return nil, fmt.Errorf("failed to process environment: %w", err)
		}
		return &cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}
