package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration, populated from the
// environment with the CONDOFLOW_ prefix.
type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
	Outbox  OutboxConfig
	Flags   FeatureFlags
}

type AppConfig struct {
	Env  string `envconfig:"APP_ENV" default:"dev"`
	Name string `envconfig:"APP_NAME" default:"condoflow"`
}

type ServiceConfig struct {
	Host            string        `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"HTTP_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"20s"`
}

type DBConfig struct {
	DSN             string        `envconfig:"DB_DSN"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type JWTConfig struct {
	Secret    string        `envconfig:"JWT_SECRET"`
	Issuer    string        `envconfig:"JWT_ISSUER" default:"condoflow"`
	AccessTTL time.Duration `envconfig:"JWT_ACCESS_TTL" default:"1h"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	LedgerTopic        string `envconfig:"PUBSUB_LEDGER_TOPIC" default:"ledger-events"`
	LedgerSubscription string `envconfig:"PUBSUB_LEDGER_SUBSCRIPTION" default:"ledger-events-sub"`
	DLQTopic           string `envconfig:"PUBSUB_DLQ_TOPIC" default:"ledger-events-dlq"`
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	MaxAttempts  int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"8"`
}

type FeatureFlags struct {
	AutoMigrate bool `envconfig:"AUTO_MIGRATE" default:"false"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}

	cfg.DB.ensureDSN()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.App.Env {
	case AppEnvDev, AppEnvTest, AppEnvProd:
	default:
		return fmt.Errorf("invalid APP_ENV %q", c.App.Env)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("database DSN is required (set %s or the legacy DB_* variables)", EnvDBDSN)
	}
	if c.App.Env == AppEnvProd && c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required in prod")
	}
	return nil
}

// ensureDSN builds a postgres URL from the legacy DB_* variables when
// DB_DSN itself is unset.
func (d *DBConfig) ensureDSN() {
	if d.DSN != "" {
		return
	}
	host := os.Getenv(EnvDBHost)
	if host == "" {
		return
	}

	port := os.Getenv(EnvDBPort)
	if port == "" {
		port = "5432"
	}
	user := os.Getenv(EnvDBUser)
	pass := os.Getenv(EnvDBPassword)
	name := os.Getenv(EnvDBName)
	sslMode := os.Getenv(EnvDBSSLMode)
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%s", host, port),
		Path:     "/" + name,
		RawQuery: "sslmode=" + sslMode,
	}
	if user != "" {
		if pass != "" {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	d.DSN = u.String()
}

// IsDev reports whether the service runs in the local development env.
func (c *Config) IsDev() bool {
	return c.App.Env == AppEnvDev
}
