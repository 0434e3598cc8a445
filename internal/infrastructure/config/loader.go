package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment names
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of every environment override, e.g. LEDGER_DATABASE_HOST
const EnvPrefix = "LEDGER"

// ConfigPaths are searched for <environment>.yaml
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths are searched for a .env file
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../.env",
	"../../.env",
}

// LoadConfig reads .env, then configs/<env>.yaml, then LEDGER_* environment overrides
func LoadConfig() (*Config, error) {
	loadDotEnvFile()

	env := getEnvironment()

	v := newViper()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Defaults and environment alone are enough to run.
	}

	return decode(v, env)
}

// LoadFromFile reads a single config file plus environment overrides
func LoadFromFile(path, env string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v, env)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without a default are only seen by Unmarshal when bound explicitly.
	for _, key := range []string{"database.username", "database.password", "auth.jwtSecret", "registry.baseURL", "registry.apiKey"} {
		_ = v.BindEnv(key)
	}
	return v
}

func decode(v *viper.Viper, env string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.Environment = env

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnvFile() {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", "15s")
	v.SetDefault("server.writeTimeout", "15s")
	v.SetDefault("server.idleTimeout", "60s")
	v.SetDefault("server.readHeaderTimeout", "10s")
	v.SetDefault("server.shutdownTimeout", "10s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "ledger")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.sqlitePath", "ledger.db")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", "30m")
	v.SetDefault("database.connMaxIdleTime", "15m")
	v.SetDefault("database.queryTimeout", "5s")
	v.SetDefault("database.slowQuery", "200ms")
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", "1s")
	v.SetDefault("database.autoMigrate", false)
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.migrationsPath", "migrations")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("transaction.concurrencyLevel", 16)
	v.SetDefault("transaction.queueSize", 100)

	v.SetDefault("cache.ttl", "30s")

	v.SetDefault("saga.lockTTL", "30s")
	v.SetDefault("saga.lockCleanupEvery", "5m")

	v.SetDefault("registry.mode", "local")
	v.SetDefault("registry.timeout", "5s")
	v.SetDefault("registry.retryMax", 3)

	v.SetDefault("auth.issuer", "fireesports")
	v.SetDefault("auth.expiry", "24h")

	v.SetDefault("outbox.interval", "10s")
	v.SetDefault("outbox.batchSize", 50)
	v.SetDefault("outbox.maxRetries", 10)

	v.SetDefault("reconciliation.enabled", true)
	v.SetDefault("reconciliation.interval", "10m")
	v.SetDefault("reconciliation.batchSize", 200)
}

func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// validateConfig reports every missing or inconsistent setting at once
func validateConfig(cfg *Config) error {
	var missing []string

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			missing = append(missing, "database.host")
		}
		if cfg.Database.Username == "" {
			missing = append(missing, "database.username")
		}
		if cfg.Database.Name == "" {
			missing = append(missing, "database.name")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			missing = append(missing, "database.sqlitePath")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	switch cfg.Registry.Mode {
	case "local":
	case "http":
		if cfg.Registry.BaseURL == "" {
			missing = append(missing, "registry.baseURL")
		}
	default:
		return fmt.Errorf("unsupported registry mode: %q", cfg.Registry.Mode)
	}

	if cfg.Auth.JWTSecret == "" {
		missing = append(missing, "auth.jwtSecret")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if cfg.Transaction.ConcurrencyLevel <= 0 || cfg.Transaction.QueueSize <= 0 {
		return errors.New("transaction.concurrencyLevel and transaction.queueSize must be positive")
	}
	return nil
}
