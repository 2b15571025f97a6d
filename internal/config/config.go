package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // часовые пояса офиса доступны и без системной tzdata

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Бэкенды блокировки комнат
const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

var (
	// ErrInvalidConfig возвращается, когда значения конфигурации недопустимы
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса.
// Значения читаются из TOML файла, затем переопределяются переменными окружения.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Auth     AuthConfig     `toml:"auth"`
	Locks    LocksConfig    `toml:"locks"`
	Redis    RedisConfig    `toml:"redis"`
	NATS     NATSConfig     `toml:"nats"`
	Rules    RulesConfig    `toml:"rules"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" env:"DB_HOST"`
	Port            int    `toml:"port" env:"DB_PORT"`
	User            string `toml:"user" env:"DB_USER"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level" env:"LOG_LEVEL"`
	File  string `toml:"file" env:"LOG_FILE"` // пусто - только stdout
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig проверка access токенов
type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret" env:"JWT_SECRET"`
	Issuer    string `toml:"issuer" env:"JWT_ISSUER"` // пусто - не проверяется
}

// LocksConfig блокировка комнат на время проверки пересечений и записи
type LocksConfig struct {
	Backend         string `toml:"backend" env:"LOCK_BACKEND"`
	TimeoutMs       int    `toml:"timeout_ms"`
	TTLMs           int    `toml:"ttl_ms"`            // только redis
	RetryIntervalMs int    `toml:"retry_interval_ms"` // только redis
}

// Timeout максимальное ожидание блокировки
func (c LocksConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RedisConfig подключение к Redis для распределённой блокировки
type RedisConfig struct {
	Addr     string `toml:"addr" env:"REDIS_ADDR"`
	Password string `toml:"password" env:"REDIS_PASSWORD"`
	DB       int    `toml:"db" env:"REDIS_DB"`
	Prefix   string `toml:"prefix"`
}

// NATSConfig публикация событий бронирований
type NATSConfig struct {
	Enabled        bool   `toml:"enabled" env:"NATS_ENABLED"`
	URL            string `toml:"url" env:"NATS_URL"`
	SubjectPrefix  string `toml:"subject_prefix"`
	ConnectTimeout int    `toml:"connect_timeout"` // секунды
}

// RulesConfig настройки правил бронирования
type RulesConfig struct {
	// Timezone часовой пояс офиса (IANA), в нём считаются минуты от полуночи.
	// Пусто или "Local" - часовой пояс процесса.
	Timezone       string `toml:"timezone" env:"OFFICE_TIMEZONE"`
	RefreshSeconds int    `toml:"refresh_seconds"`
}

// Location возвращает часовой пояс офиса
func (c RulesConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "room_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "room-booking-service",
		},
		Locks: LocksConfig{
			Backend:         LockBackendLocal,
			TimeoutMs:       3000,
			TTLMs:           10000,
			RetryIntervalMs: 50,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "room-booking",
		},
		NATS: NATSConfig{
			URL:            "nats://localhost:4222",
			SubjectPrefix:  "rooms",
			ConnectTimeout: 5,
		},
		Rules: RulesConfig{
			Timezone:       "Local",
			RefreshSeconds: 30,
		},
	}
}

// Load читает конфигурацию из файла и переменных окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be within 1..65535", ErrInvalidConfig)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	}

	switch c.Locks.Backend {
	case LockBackendLocal:
	case LockBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for redis lock backend", ErrInvalidConfig)
		}
		if c.Locks.TTLMs <= c.Locks.TimeoutMs {
			return fmt.Errorf("%w: locks.ttl_ms must be greater than locks.timeout_ms", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: locks.backend must be %q or %q", ErrInvalidConfig, LockBackendLocal, LockBackendRedis)
	}

	if c.Locks.TimeoutMs <= 0 {
		return fmt.Errorf("%w: locks.timeout_ms must be positive", ErrInvalidConfig)
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		return fmt.Errorf("%w: nats.url is required when nats is enabled", ErrInvalidConfig)
	}

	if c.Rules.RefreshSeconds < 0 {
		return fmt.Errorf("%w: rules.refresh_seconds must not be negative", ErrInvalidConfig)
	}

	if _, err := c.Rules.Location(); err != nil {
		return fmt.Errorf("%w: rules.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}
