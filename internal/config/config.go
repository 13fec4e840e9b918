package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig возвращается, когда конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Storage   StorageConfig   `toml:"storage"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"ratelimit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	MaxTxRetries    int    `toml:"max_tx_retries"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// StorageConfig выбор хранилища: postgres или memory
type StorageConfig struct {
	Driver string `toml:"driver"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig правила записи
type BookingConfig struct {
	Timezone                  string `toml:"timezone"`
	SlotStepMinutes           int    `toml:"slot_step_minutes"`
	LeadTimeMinutes           int    `toml:"lead_time_minutes"`
	ClientCancelNoticeMinutes int    `toml:"client_cancel_notice_minutes"`
	MaxNotesLength            int    `toml:"max_notes_length"`
}

// Location возвращает часовой пояс расписания
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" || b.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(b.Timezone)
}

// CacheConfig настройки кеша рабочих часов (в секундах)
type CacheConfig struct {
	WorkingHoursTTL int `toml:"working_hours_ttl"`
}

// RateLimitConfig лимит создания записей на одного пользователя
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerMinute float64 `toml:"requests_per_minute"`
	Burst             int     `toml:"burst"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "appointments",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			MaxTxRetries:    3,
			AutoMigrate:     true,
		},
		Storage: StorageConfig{Driver: "postgres"},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "smc-appointment-service",
		},
		Booking: BookingConfig{
			Timezone:                  "Local",
			SlotStepMinutes:           30,
			LeadTimeMinutes:           30,
			ClientCancelNoticeMinutes: 120,
			MaxNotesLength:            500,
		},
		Cache: CacheConfig{WorkingHoursTTL: 60},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 10,
			Burst:             5,
		},
	}
}

// Load читает TOML файл, затем .env (если есть) и переменные окружения
// Значения из окружения перекрывают значения из файла
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	// .env не обязателен
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("%w: storage.driver must be postgres or memory, got %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Database.MaxTxRetries < 0 {
		return fmt.Errorf("%w: database.max_tx_retries must be >= 0", ErrInvalidConfig)
	}

	b := c.Booking
	if b.SlotStepMinutes <= 0 {
		return fmt.Errorf("%w: booking.slot_step_minutes must be positive", ErrInvalidConfig)
	}
	if b.LeadTimeMinutes < 0 {
		return fmt.Errorf("%w: booking.lead_time_minutes must be >= 0", ErrInvalidConfig)
	}
	if b.ClientCancelNoticeMinutes < 0 {
		return fmt.Errorf("%w: booking.client_cancel_notice_minutes must be >= 0", ErrInvalidConfig)
	}
	if b.MaxNotesLength <= 0 {
		return fmt.Errorf("%w: booking.max_notes_length must be positive", ErrInvalidConfig)
	}
	if _, err := b.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	if c.Cache.WorkingHoursTTL < 0 {
		return fmt.Errorf("%w: cache.working_hours_ttl must be >= 0", ErrInvalidConfig)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: ratelimit requires positive requests_per_minute and burst", ErrInvalidConfig)
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Logs.Level, "LOG_LEVEL")
	setString(&cfg.Logs.File, "LOG_FILE")
	setString(&cfg.Booking.Timezone, "BOOKING_TIMEZONE")

	if err := setInt(&cfg.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Server.HTTPPort, "HTTP_PORT"); err != nil {
		return err
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer: %v", ErrInvalidConfig, key, err)
	}
	*dst = n
	return nil
}
