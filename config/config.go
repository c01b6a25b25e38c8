package config

import (
	"fmt"
	"time"

	"github.com/Harish01234/vahanseva/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Database  DatabaseConfig
		HTTP      HTTPConfig
		Nominatim NominatimConfig
		Redis     RedisConfig
		RabbitMQ  RabbitMQConfig
		Auth      Auth
		LogLevel  string `env:"LOG_LEVEL" default:"DEBUG"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"vahanseva_user"`
		Password string `env:"DATABASE_PASSWORD" default:"vahanseva_pass"`
		Database string `env:"DATABASE_DATABASE" default:"vahanseva_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	HTTPConfig struct {
		Port string `env:"HTTP_PORT" default:"3000"`
	}

	NominatimConfig struct {
		BaseURL   string        `env:"NOMINATIM_BASE_URL" default:"https://nominatim.openstreetmap.org"`
		UserAgent string        `env:"NOMINATIM_USER_AGENT" default:"vahanseva/1.0"`
		Timeout   time.Duration `env:"NOMINATIM_TIMEOUT" default:"5s"`
		CacheTTL  time.Duration `env:"NOMINATIM_CACHE_TTL" default:"24h"`
	}

	RedisConfig struct {
		// Empty Addr disables the geocode cache.
		Addr     string `env:"REDIS_ADDR" default:""`
		Password string `env:"REDIS_PASSWORD" default:""`
		DB       int    `env:"REDIS_DB" default:"0"`
	}

	RabbitMQConfig struct {
		// Empty Host disables event publishing.
		Host     string `env:"RABBITMQ_HOST" default:""`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	Auth struct {
		AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"15m"`
		RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" default:"168h"`
		JWTSecret       string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}
)

// PoolSettings exposes the connection pool tunables.
func (c DatabaseConfig) PoolSettings() (int32, int32, time.Duration, time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading environment variables and parsing into the config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
