package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "CONFIG_FILE"

// Config defines the fleettrack service configuration. Values come from an
// optional YAML file pointed to by CONFIG_FILE, overridden field by field
// with FLEETTRACK_* environment variables.
type Config struct {
	HTTP struct {
		Port string `yaml:"port"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" validate:"required"`
	} `yaml:"database"`
	Redis struct {
		Addr       string `yaml:"addr"`
		Password   string `yaml:"password"`
		TTLSeconds int    `yaml:"ttlSeconds"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled bool     `yaml:"enabled"`
		Brokers []string `yaml:"brokers" validate:"required_if=Enabled true"`
		Topic   string   `yaml:"topic" validate:"required_if=Enabled true"`
		GroupID string   `yaml:"groupId"`
	} `yaml:"kafka"`
	Tracking struct {
		RouteWindowHours int `yaml:"routeWindowHours" validate:"gte=0"`
	} `yaml:"tracking"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load builds the configuration from file and environment.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8084"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTLSeconds = 3600
	cfg.Kafka.GroupID = "fleettrack"
	cfg.Tracking.RouteWindowHours = 24
	cfg.Log.Level = "info"

	if path := os.Getenv(configPathEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	}

	applyEnv(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.HTTP.Port, "FLEETTRACK_HTTP_PORT")
	setString(&cfg.Database.DSN, "FLEETTRACK_POSTGRES_DSN")
	setString(&cfg.Redis.Addr, "FLEETTRACK_REDIS_ADDR")
	setString(&cfg.Redis.Password, "FLEETTRACK_REDIS_PASSWORD")
	setInt(&cfg.Redis.TTLSeconds, "FLEETTRACK_REDIS_TTL")
	setBool(&cfg.Kafka.Enabled, "FLEETTRACK_KAFKA_ENABLED")
	setString(&cfg.Kafka.Topic, "FLEETTRACK_KAFKA_TOPIC")
	setString(&cfg.Kafka.GroupID, "FLEETTRACK_KAFKA_GROUP_ID")
	setInt(&cfg.Tracking.RouteWindowHours, "FLEETTRACK_ROUTE_WINDOW_HOURS")
	setString(&cfg.Log.Level, "FLEETTRACK_LOG_LEVEL")

	if raw, ok := os.LookupEnv("FLEETTRACK_KAFKA_BROKERS"); ok {
		var brokers []string
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.Kafka.Brokers = brokers
	}
}

func setString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		*target = val
	}
}

func setInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			*target = parsed
		}
	}
}

func setBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(val); err == nil {
			*target = parsed
		}
	}
}

// HTTPAddress returns the listen address in :port form.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8084"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// LatestPositionTTL returns the Redis cache TTL as a duration.
func (c *Config) LatestPositionTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// RouteWindow returns the trailing window used for live tracking selections.
func (c *Config) RouteWindow() time.Duration {
	if c.Tracking.RouteWindowHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Tracking.RouteWindowHours) * time.Hour
}
