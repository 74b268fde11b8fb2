// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Errors returned by Load wrap this package's sentinel errors.
package config

// Storage drivers accepted by StorageDriver.
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// MetricsAddr is the listen address of the /metrics endpoint. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	// StorageDriver selects the primary persistence backend.
	StorageDriver string `koanf:"storage_driver" validate:"oneof=file redis postgres memory"`

	// DataPath is the season document used by the file driver.
	DataPath string `koanf:"data_path" validate:"required_if=StorageDriver file"`

	// FallbackPath is an optional read-only file consulted when the primary fails.
	FallbackPath string `koanf:"fallback_path"`

	RedisAddr     string `koanf:"redis_addr" validate:"required_if=StorageDriver redis"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db" validate:"gte=0"`
	RedisKey      string `koanf:"redis_key"`

	PostgresDSN string `koanf:"postgres_dsn" validate:"required_if=StorageDriver postgres"`

	// SeasonKey identifies the season row/key in shared backends.
	SeasonKey string `koanf:"season_key" validate:"required"`

	// MaxWeeks bounds AdvanceWeek. Zero means unbounded.
	MaxWeeks int `koanf:"max_weeks" validate:"gte=0"`

	// AdminPassword gates administrative verification. Empty rejects everyone.
	AdminPassword string `koanf:"admin_password"`

	// AdminAttemptsPerMinute rate limits VerifyAdmin.
	AdminAttemptsPerMinute int `koanf:"admin_attempts_per_minute" validate:"gt=0"`

	// NotifyQueueSize bounds the change notification queue.
	NotifyQueueSize int `koanf:"notify_queue_size" validate:"gt=0"`

	// ScoringRules overrides event points by name. Events not listed keep the
	// standard values (survived 1, technicalWin 2, starBaker 3, handshake 3,
	// soggyBottom -0.5).
	ScoringRules map[string]float64 `koanf:"scoring_rules"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		MetricsAddr:            ":9090",
		StorageDriver:          DriverFile,
		DataPath:               "season.json",
		RedisKey:               "fantasybakes:season",
		SeasonKey:              "current",
		MaxWeeks:               10,
		AdminAttemptsPerMinute: 10,
		NotifyQueueSize:        1024,
		ScoringRules:           map[string]float64{},
	}
}
