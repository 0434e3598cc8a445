package config

import "time"

// Config holds all configuration for the service
type Config struct {
	Environment    string               `mapstructure:"environment"`
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Logger         LoggerConfig         `mapstructure:"logger"`
	Transaction    TransactionConfig    `mapstructure:"transaction"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Saga           SagaConfig           `mapstructure:"saga"`
	Registry       RegistryConfig       `mapstructure:"registry"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Outbox         OutboxConfig         `mapstructure:"outbox"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
	CORS           CORSConfig           `mapstructure:"cors"`
	Seed           SeedConfig           `mapstructure:"seed"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslMode"`
	SQLitePath      string        `mapstructure:"sqlitePath"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`
	SlowQuery       time.Duration `mapstructure:"slowQuery"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"`
	AutoMigrate     bool          `mapstructure:"autoMigrate"`
	LogLevel        string        `mapstructure:"logLevel"`
	MigrationsPath  string        `mapstructure:"migrationsPath"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// TransactionConfig sizes the per-account mutation queues
type TransactionConfig struct {
	ConcurrencyLevel int `mapstructure:"concurrencyLevel"`
	QueueSize        int `mapstructure:"queueSize"`
}

// CacheConfig controls the balance projection
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// SagaConfig controls the tournament join workflow
type SagaConfig struct {
	LockTTL          time.Duration `mapstructure:"lockTTL"`
	LockCleanupEvery time.Duration `mapstructure:"lockCleanupEvery"`
}

// RegistryConfig selects and configures the tournament registry
type RegistryConfig struct {
	Mode     string        `mapstructure:"mode"` // local or http
	BaseURL  string        `mapstructure:"baseURL"`
	APIKey   string        `mapstructure:"apiKey"`
	Timeout  time.Duration `mapstructure:"timeout"`
	RetryMax int           `mapstructure:"retryMax"`
}

// AuthConfig holds the JWT settings shared with the identity service
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwtSecret"`
	Issuer    string        `mapstructure:"issuer"`
	Expiry    time.Duration `mapstructure:"expiry"`
}

// OutboxConfig controls the saga resume processor
type OutboxConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	BatchSize  int           `mapstructure:"batchSize"`
	MaxRetries int           `mapstructure:"maxRetries"`
}

// ReconciliationConfig controls the balance audit sweep
type ReconciliationConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batchSize"`
}

// CORSConfig lists the browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// SeedConfig lists accounts created at start-up, with their opening balance in minor units
type SeedConfig struct {
	Accounts map[string]int64 `mapstructure:"accounts"`
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}
