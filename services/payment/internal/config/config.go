package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/config"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/logger"
)

const serviceName = "payment"

type Config struct {
	Service      ServiceConfig      `mapstructure:"service"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Server       ServerConfig       `mapstructure:"server"`
	Log          logger.Config      `mapstructure:"log"`
	JWT          JWTConfig          `mapstructure:"jwt"`
	Notification NotificationConfig `mapstructure:"notification"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Email        EmailConfig        `mapstructure:"email"`
}

// LoadConfig reads configs/<env>/payment.yaml (or CONFIG_PATH) with PAYMENT_* env overrides.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := pkgconfig.Load(serviceName, &cfg, defaults()); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings that have no safe default.
func (c *Config) Validate() error {
	switch c.Notification.Driver {
	case NotificationDriverMemory, NotificationDriverRedis:
	default:
		return fmt.Errorf("unknown notification driver %q", c.Notification.Driver)
	}

	switch c.Database.Driver {
	case DatabaseDriverPostgres, DatabaseDriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Notification.Workers < 1 {
		return fmt.Errorf("notification.workers must be at least 1")
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}

	if c.Service.Environment == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}

	return nil
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"service.name":            serviceName,
		"service.environment":     "development",
		"service.version":         "dev",
		"service.client_url":      "http://localhost:3000",
		"service.confirm_timeout": 10 * time.Second,

		"database.driver":             DatabaseDriverPostgres,
		"database.path":               "payment.db",
		"database.host":               "localhost",
		"database.port":               5432,
		"database.name":               "elearning",
		"database.user":               "postgres",
		"database.password":           "",
		"database.ssl_mode":           "disable",
		"database.log_level":          "warn",
		"database.slow_threshold":     200 * time.Millisecond,
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  30 * time.Minute,
		"database.conn_max_idle_time": 5 * time.Minute,
		"database.auto_migrate":       true,

		"server.http.host":             "0.0.0.0",
		"server.http.port":             8080,
		"server.http.shutdown_timeout": 15 * time.Second,
		"server.grpc.host":             "0.0.0.0",
		"server.grpc.port":             9090,

		"log.level":   "info",
		"log.format":  "json",
		"log.output":  "stdout",
		"log.service": serviceName,

		"jwt.secret": "",
		"jwt.issuer": "",

		"notification.driver":         NotificationDriverMemory,
		"notification.queue":          "elearning:notifications",
		"notification.workers":        2,
		"notification.buffer_size":    256,
		"notification.retry_attempts": 3,
		"notification.retry_delay":    200 * time.Millisecond,
		"notification.poll_timeout":   2 * time.Second,

		"redis.addr":     "localhost:6379",
		"redis.password": "",
		"redis.db":       0,

		"kafka.enabled":   false,
		"kafka.brokers":   []string{},
		"kafka.topic":     "payment.events",
		"kafka.client_id": "payment-service",

		"email.enabled":   false,
		"email.smtp_host": "",
		"email.smtp_port": 587,
		"email.username":  "",
		"email.password":  "",
		"email.from":      "no-reply@elearning.local",
		"email.from_name": "E-Learning",
	}
}
