package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/NutriClinic-SchedulingService/internal/domain"
)

var (
	// ErrLoadConfig возвращается, когда файл конфигурации не удалось прочитать
	ErrLoadConfig = errors.New("config: failed to load config")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig        `toml:"server"`
	Database        DatabaseConfig      `toml:"database"`
	Logs            LogsConfig          `toml:"logs"`
	Metrics         MetricsConfig       `toml:"metrics"`
	ProviderService IntegrationConfig   `toml:"provider_service"`
	PatientService  IntegrationConfig   `toml:"patient_service"`
	Scheduling      SchedulingConfig    `toml:"scheduling"`
	PublicBooking   PublicBookingConfig `toml:"public_booking"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig настройки внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// TimeoutDuration возвращает таймаут как time.Duration
func (c IntegrationConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SchedulingConfig настройки движка расписания
type SchedulingConfig struct {
	DefaultTimezone               string `toml:"default_timezone"`
	MaxAppointmentDurationMinutes int    `toml:"max_appointment_duration_minutes"`
	OfferedDurations              []int  `toml:"offered_durations"`
	SerializationRetries          int    `toml:"serialization_retries"`
	SerializationRetryBackoffMS   int    `toml:"serialization_retry_backoff_ms"`
}

// SerializationRetryBackoff возвращает базовую паузу между повторами сериализуемой транзакции
func (c SchedulingConfig) SerializationRetryBackoff() time.Duration {
	return time.Duration(c.SerializationRetryBackoffMS) * time.Millisecond
}

// Location возвращает часовой пояс по умолчанию
func (c SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.DefaultTimezone)
}

// PublicBookingConfig ограничение частоты запросов публичной записи (на IP)
type PublicBookingConfig struct {
	RatePerSecond  float64  `toml:"rate_per_second"`
	Burst          int      `toml:"burst"`
	TrustedProxies []string `toml:"trusted_proxies"` // IP или CIDR, которым разрешен X-Forwarded-For
}

// TrustedProxyPrefixes разбирает trusted_proxies; одиночный адрес превращается в подсеть из одного адреса
func (c PublicBookingConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, entry := range c.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию и валидирует
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
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
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "scheduling-service",
		},
		ProviderService: IntegrationConfig{Timeout: 5},
		PatientService:  IntegrationConfig{Timeout: 5},
		Scheduling: SchedulingConfig{
			DefaultTimezone:               "UTC",
			MaxAppointmentDurationMinutes: 480,
			OfferedDurations:              []int{30, 45, 60, 90, 120},
			SerializationRetries:          3,
			SerializationRetryBackoffMS:   20,
		},
		PublicBooking: PublicBookingConfig{
			RatePerSecond: 2,
			Burst:         10,
		},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in range 1..65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.ProviderService.URL == "" {
		return fmt.Errorf("%w: provider_service.url is required", ErrInvalidConfig)
	}
	if c.PatientService.URL == "" {
		return fmt.Errorf("%w: patient_service.url is required", ErrInvalidConfig)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.default_timezone: %w", ErrInvalidConfig, err)
	}
	if c.Scheduling.MaxAppointmentDurationMinutes <= 0 ||
		c.Scheduling.MaxAppointmentDurationMinutes > domain.MaxAppointmentDurationMinutes {
		return fmt.Errorf("%w: scheduling.max_appointment_duration_minutes must be in range 1..%d",
			ErrInvalidConfig, domain.MaxAppointmentDurationMinutes)
	}
	if len(c.Scheduling.OfferedDurations) == 0 {
		return fmt.Errorf("%w: scheduling.offered_durations must not be empty", ErrInvalidConfig)
	}
	for _, d := range c.Scheduling.OfferedDurations {
		if d <= 0 || d > c.Scheduling.MaxAppointmentDurationMinutes {
			return fmt.Errorf("%w: scheduling.offered_durations contains %d", ErrInvalidConfig, d)
		}
	}
	if c.Scheduling.SerializationRetries < 0 {
		return fmt.Errorf("%w: scheduling.serialization_retries must not be negative", ErrInvalidConfig)
	}
	if c.Scheduling.SerializationRetryBackoffMS < 0 {
		return fmt.Errorf("%w: scheduling.serialization_retry_backoff_ms must not be negative", ErrInvalidConfig)
	}
	if c.PublicBooking.RatePerSecond <= 0 || c.PublicBooking.Burst <= 0 {
		return fmt.Errorf("%w: public_booking.rate_per_second and burst must be positive", ErrInvalidConfig)
	}
	if _, err := c.PublicBooking.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("%w: public_booking.trusted_proxies: %w", ErrInvalidConfig, err)
	}
	return nil
}
