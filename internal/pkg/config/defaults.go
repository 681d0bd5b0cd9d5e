package config

import "time"

// Default values for configuration.
const (
	// Server defaults
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultCleanupInterval = 1 * time.Hour

	// Data defaults
	DefaultMessageDirectory = "./messages/inbox"

	// Processing defaults
	DefaultTaskTimeout = 120 * time.Second
	DefaultCacheTTL    = 60 * time.Minute

	// Statistics defaults
	DefaultTopWords         = 20
	DefaultMinWordLength    = 3
	DefaultTopReactions     = 10
	DefaultTimezone         = "UTC"
	DefaultParallel         = true
	DefaultAveragePrecision = 1

	// Logging defaults
	DefaultLogLevel = "info"

	// DefaultConfigFile - путь к YAML-файлу конфигурации по умолчанию.
	DefaultConfigFile = "config.yml"
)
