package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, перекрывающих значения из TOML
// Имя переменной: SPORTAFIT_<СЕКЦИЯ>_<ПОЛЕ>, например SPORTAFIT_DATABASE_PASSWORD
const EnvPrefix = "SPORTAFIT"

var (
	// ErrInvalidConfig конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

type Config struct {
	Server   ServerConfig   `toml:"server" envconfig:"SERVER"`
	Database DatabaseConfig `toml:"database" envconfig:"DATABASE"`
	Logs     LogsConfig     `toml:"logs" envconfig:"LOGS"`
	Metrics  MetricsConfig  `toml:"metrics" envconfig:"METRICS"`
	Auth     AuthConfig     `toml:"auth" envconfig:"AUTH"`
	Booking  BookingConfig  `toml:"booking" envconfig:"BOOKING"`
	Events   EventsConfig   `toml:"events" envconfig:"EVENTS"`
	Redis    RedisConfig    `toml:"redis" envconfig:"REDIS"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq" envconfig:"RABBITMQ"`
}

// ServerConfig таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level" split_words:"true"`
	File  string `toml:"file" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret" split_words:"true"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes" split_words:"true"`
}

// TokenTTL время жизни access-токена
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

type BookingConfig struct {
	ExpiryWindowMinutes int    `toml:"expiry_window_minutes" split_words:"true"`
	ServiceFee          int64  `toml:"service_fee" split_words:"true"` // рупии
	SlotDurationMinutes int    `toml:"slot_duration_minutes" split_words:"true"`
	Timezone            string `toml:"timezone" split_words:"true"`
	SweepSchedule       string `toml:"sweep_schedule" split_words:"true"`
	SweepBatchSize      int    `toml:"sweep_batch_size" split_words:"true"`
	SweepTimeout        int    `toml:"sweep_timeout" split_words:"true"` // секунды
}

// ExpiryWindow окно оплаты, после которого pending бронирование истекает
func (b BookingConfig) ExpiryWindow() time.Duration {
	return time.Duration(b.ExpiryWindowMinutes) * time.Minute
}

// Location часовой пояс арен, в нём интерпретируются дата и время слота
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

type EventsConfig struct {
	SubscriberBuffer int `toml:"subscriber_buffer" split_words:"true"`
	HeartbeatSeconds int `toml:"heartbeat_seconds" split_words:"true"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	Addr     string `toml:"addr" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	DB       int    `toml:"db" split_words:"true"`
	Channel  string `toml:"channel" split_words:"true"`
}

type RabbitMQConfig struct {
	Enabled         bool   `toml:"enabled" split_words:"true"`
	URL             string `toml:"url" split_words:"true"`
	BookingExchange string `toml:"booking_exchange" split_words:"true"`
	PaymentExchange string `toml:"payment_exchange" split_words:"true"`
	PaymentQueue    string `toml:"payment_queue" split_words:"true"`
	Prefetch        int    `toml:"prefetch" split_words:"true"`
}

// Load читает TOML файл, затем .env (если есть) и переменные окружения SPORTAFIT_*
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	switch {
	case c.Database.Host == "":
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	case c.Database.DBName == "":
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	case c.Auth.JWTSecret == "":
		return fmt.Errorf("%w: auth.jwt_secret is required", ErrInvalidConfig)
	case c.Auth.TokenTTLMinutes <= 0:
		return fmt.Errorf("%w: auth.token_ttl_minutes must be positive", ErrInvalidConfig)
	case c.Booking.ExpiryWindowMinutes <= 0:
		return fmt.Errorf("%w: booking.expiry_window_minutes must be positive", ErrInvalidConfig)
	case c.Booking.ServiceFee < 0:
		return fmt.Errorf("%w: booking.service_fee must not be negative", ErrInvalidConfig)
	case c.Booking.SlotDurationMinutes <= 0 || 1440%c.Booking.SlotDurationMinutes != 0:
		return fmt.Errorf("%w: booking.slot_duration_minutes must divide a day", ErrInvalidConfig)
	case c.Booking.SweepSchedule == "":
		return fmt.Errorf("%w: booking.sweep_schedule is required", ErrInvalidConfig)
	case c.Redis.Enabled && c.Redis.Addr == "":
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	case c.RabbitMQ.Enabled && c.RabbitMQ.URL == "":
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalidConfig)
	}

	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
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
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "sportafit-booking"},
		Auth:    AuthConfig{TokenTTLMinutes: 24 * 60},
		Booking: BookingConfig{
			ExpiryWindowMinutes: 15,
			SlotDurationMinutes: 60,
			Timezone:            "Asia/Jakarta",
			SweepSchedule:       "@every 1m",
			SweepBatchSize:      500,
			SweepTimeout:        30,
		},
		Events: EventsConfig{SubscriberBuffer: 16, HeartbeatSeconds: 25},
		Redis:  RedisConfig{Channel: "sportafit:booking-events"},
		RabbitMQ: RabbitMQConfig{
			BookingExchange: "booking.exchange",
			PaymentExchange: "payment.exchange",
			PaymentQueue:    "booking-service.payments",
			Prefetch:        10,
		},
	}
}
