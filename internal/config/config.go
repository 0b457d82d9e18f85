package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Redis          RedisConfig          `toml:"redis"`
	RabbitMQ       RabbitMQConfig       `toml:"rabbitmq"`
	PaymentService PaymentServiceConfig `toml:"payment_service"`
	Booking        BookingConfig        `toml:"booking"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
}

// ServerConfig настройки HTTP сервера. Таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, sslMode)
}

// RedisConfig настройки хранилища черновиков оплаты
type RedisConfig struct {
	Addr             string `toml:"addr"`
	Password         string `toml:"password"`
	DB               int    `toml:"db"`
	PaymentIntentTTL int    `toml:"payment_intent_ttl"` // минуты
}

// RabbitMQConfig настройки публикации уведомлений.
// При enabled = false уведомления только пишутся в лог
type RabbitMQConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Queue   string `toml:"queue"`
}

// PaymentServiceConfig настройки платёжного сервиса
type PaymentServiceConfig struct {
	URL      string `toml:"url"`
	Timeout  int    `toml:"timeout"` // секунды
	Currency string `toml:"currency"`
}

// BookingConfig параметры движка бронирований
type BookingConfig struct {
	CalendarWindowDays  int `toml:"calendar_window_days"`
	SerializableRetries int `toml:"serializable_retries"`
	ReminderInterval    int `toml:"reminder_interval"` // минуты, 0 - воркер выключен
	ReminderLeadHours   int `toml:"reminder_lead_hours"`
	// Timezone IANA пояс, в котором гиды задают даты и время сессий
	Timezone string `toml:"timezone"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Load читает конфигурацию из TOML файла, подставляет значения по умолчанию
// и секреты из переменных окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Redis: RedisConfig{
			Addr:             "localhost:6379",
			PaymentIntentTTL: 30,
		},
		RabbitMQ: RabbitMQConfig{
			Queue: "guide_notifications",
		},
		PaymentService: PaymentServiceConfig{
			Timeout:  10,
			Currency: "EUR",
		},
		Booking: BookingConfig{
			CalendarWindowDays:  60,
			SerializableRetries: 3,
			ReminderInterval:    15,
			ReminderLeadHours:   24,
			Timezone:            "UTC",
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "guide-sessions",
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		c.RabbitMQ.URL = v
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Database.Port <= 0 {
		return fmt.Errorf("%w: database.port must be positive", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host, user and dbname are required", ErrInvalidConfig)
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required", ErrInvalidConfig)
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalidConfig)
	}
	if c.PaymentService.URL == "" {
		return fmt.Errorf("%w: payment_service.url is required", ErrInvalidConfig)
	}
	if c.Booking.CalendarWindowDays < 1 {
		return fmt.Errorf("%w: booking.calendar_window_days must be at least 1", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalidConfig, c.Booking.Timezone, err)
	}
	return nil
}

// PaymentIntentTTL время жизни черновика бронирования
func (c *Config) PaymentIntentTTL() time.Duration {
	return time.Duration(c.Redis.PaymentIntentTTL) * time.Minute
}

// ReminderInterval период воркера напоминаний
func (c *Config) ReminderInterval() time.Duration {
	return time.Duration(c.Booking.ReminderInterval) * time.Minute
}

// ReminderLead за сколько до начала сессии отправлять напоминание
func (c *Config) ReminderLead() time.Duration {
	return time.Duration(c.Booking.ReminderLeadHours) * time.Hour
}

// Location часовой пояс дат и времени сессий. Validate гарантирует, что пояс загружается
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
