package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

const envProduction = "production"

// Config is the full service configuration, loaded from the environment.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Relay   RelayConfig
	Kafka   KafkaConfig
	Redis   RedisConfig
	Engine  EngineConfig
	Tracing TracingConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Environment string
	LogLevel    string
}

// DBConfig holds the Postgres connection settings
type DBConfig struct {
	URL         string
	MaxConns    int32
	AutoMigrate bool
}

// RelayConfig points at the mail relay that delivers notifications.
type RelayConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type KafkaConfig struct {
	Brokers     []string
	EventsTopic string
	ClientID    string
}

type RedisConfig struct {
	Addr      string
	RateLimit int
	Window    time.Duration
	// TrustedProxies may set X-Forwarded-For; everyone else is keyed by socket address.
	TrustedProxies []netip.Prefix
}

// EngineConfig drives the reconciliation engine.
type EngineConfig struct {
	Simulate         bool
	SimulatedLatency time.Duration
	PersistTimeout   time.Duration
	NotifyTimeout    time.Duration
	SupportEmail     string
	CheckEmailMX     bool
}

type TracingConfig struct {
	Endpoint string
}

// LoadConfig reads the configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "contact-service"),
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			URL:         os.Getenv("DATABASE_URL"),
			MaxConns:    int32(getEnvInt("DB_MAX_CONNS", 10)),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
		},
		Relay: RelayConfig{
			BaseURL: os.Getenv("RELAY_URL"),
			APIKey:  os.Getenv("RELAY_API_KEY"),
			Timeout: getEnvDuration("RELAY_HTTP_TIMEOUT", 15*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(os.Getenv("KAFKA_BROKERS")),
			EventsTopic: getEnv("KAFKA_EVENTS_TOPIC", "contact.submissions"),
			ClientID:    getEnv("KAFKA_CLIENT_ID", "contact-service-producer"),
		},
		Redis: RedisConfig{
			Addr:      os.Getenv("REDIS_ADDR"),
			RateLimit: getEnvInt("RATE_LIMIT", 5),
			Window:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Engine: EngineConfig{
			Simulate:         getEnvBool("CONTACT_SIMULATE", false),
			SimulatedLatency: getEnvDuration("CONTACT_SIMULATED_LATENCY", time.Second),
			PersistTimeout:   getEnvDuration("PERSIST_TIMEOUT", 10*time.Second),
			NotifyTimeout:    getEnvDuration("NOTIFY_TIMEOUT", 10*time.Second),
			SupportEmail:     getEnv("SUPPORT_EMAIL", "support@example.com"),
			CheckEmailMX:     getEnvBool("VALIDATE_EMAIL_MX", true),
		},
		Tracing: TracingConfig{
			Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}

	proxies, err := parsePrefixes(os.Getenv("TRUSTED_PROXIES"))
	if err != nil {
		return nil, &ConfigError{Field: "TRUSTED_PROXIES", Message: err.Error()}
	}
	cfg.Redis.TrustedProxies = proxies

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, envProduction)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return &ConfigError{Field: "PORT", Message: "port cannot be empty"}
	}
	if c.Engine.Simulate && c.IsProduction() {
		return &ConfigError{Field: "CONTACT_SIMULATE", Message: "simulation cannot be enabled in production"}
	}
	if c.Engine.Simulate {
		// channels are never called in simulation
		return nil
	}
	if c.DB.URL == "" {
		return &ConfigError{Field: "DATABASE_URL", Message: "database url cannot be empty"}
	}
	if c.Relay.BaseURL == "" {
		return &ConfigError{Field: "RELAY_URL", Message: "relay url cannot be empty"}
	}
	if c.Engine.PersistTimeout <= 0 || c.Engine.NotifyTimeout <= 0 {
		return &ConfigError{Field: "PERSIST_TIMEOUT/NOTIFY_TIMEOUT", Message: "channel timeouts must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePrefixes reads a comma list of CIDRs or bare addresses.
func parsePrefixes(raw string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, item := range splitList(raw) {
		if !strings.Contains(item, "/") {
			addr, err := netip.ParseAddr(item)
			if err != nil {
				return nil, fmt.Errorf("invalid address %q", item)
			}
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(item)
		if err != nil {
			return nil, fmt.Errorf("invalid cidr %q", item)
		}
		out = append(out, prefix.Masked())
	}
	return out, nil
}
