// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the dashboard API server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; required for everything except pure unit tests.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// JWTPublicKey is the PEM-encoded public key (RSA or ECDSA) used to validate
	// access tokens issued by the external identity provider.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the expected iss claim (e.g. "signoff-auth").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the expected aud claim (e.g. "signoff-api").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// AuthDisabled turns off bearer-token checks on /api/v1. Must not be true when
	// Env is production (startup error).
	AuthDisabled bool `mapstructure:"AUTH_DISABLED"`

	// OrgEmailDomain is the domain appended to a hierarchy raw id when matching it
	// against a user's masked external id (e.g. "corp.example.com").
	OrgEmailDomain string `mapstructure:"ORG_EMAIL_DOMAIN"`
	// DeferredMethodID is the signoff method id reserved for deferred signoffs.
	DeferredMethodID string `mapstructure:"DEFERRED_METHOD_ID"`

	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// Version is reported by the health endpoint.
	Version string `mapstructure:"APP_VERSION"`

	// OTLPEndpoint enables OTel export when set (e.g. http://localhost:4317).
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`

	// RunlogKafkaBrokers is a comma-separated list of Kafka broker addresses; when
	// set, run-completed events are emitted to Kafka.
	RunlogKafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// RunlogKafkaTopic is the Kafka topic for run-completed events.
	RunlogKafkaTopic string `mapstructure:"RUNLOG_KAFKA_TOPIC"`

	// Worker-only: Loki URL for the run-event worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the run-event worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_ISSUER", "signoff-auth")
	v.SetDefault("JWT_AUDIENCE", "signoff-api")
	v.SetDefault("AUTH_DISABLED", false)
	v.SetDefault("ORG_EMAIL_DOMAIN", "corp.example.com")
	v.SetDefault("DEFERRED_METHOD_ID", "deferred")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("APP_VERSION", "0.1.0")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("RUNLOG_KAFKA_TOPIC", "signoff-report-runs")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "signoff-runlog-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.AuthDisabled && cfg.Env == "production" {
		return nil, errors.New("config: AUTH_DISABLED must not be true when APP_ENV=production")
	}
	if cfg.OrgEmailDomain == "" {
		return nil, errors.New("config: ORG_EMAIL_DOMAIN must be set")
	}
	if cfg.DeferredMethodID == "" {
		return nil, errors.New("config: DEFERRED_METHOD_ID must be set")
	}

	return &cfg, nil
}

// RunlogKafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if run-event emission is enabled (non-empty list) and to create the producer.
func (c *Config) RunlogKafkaBrokersList() []string {
	if c == nil || c.RunlogKafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.RunlogKafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
