package config

import (
	"flag"
	"fmt"
	"time"
)

// Document storage drivers of the relay server.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Server is the configuration of cmd/server.
type Server struct {
	Addr            string        `env:"TXT_ADDR" envDefault:":8080"`
	Storage         string        `env:"TXT_STORAGE" envDefault:"sqlite"`
	DBPath          string        `env:"TXT_SERVER_DB_PATH" envDefault:"txtpresence-server.db"`
	DatabaseURL     string        `env:"TXT_DATABASE_URL"`
	RedisAddr       string        `env:"TXT_REDIS_ADDR"`
	LogLevel        string        `env:"TXT_LOG_LEVEL" envDefault:"info"`
	CreateRate      float64       `env:"TXT_CREATE_RATE" envDefault:"1"`
	CreateBurst     int           `env:"TXT_CREATE_BURST" envDefault:"5"`
	ShutdownTimeout time.Duration `env:"TXT_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MDNS            bool          `env:"TXT_MDNS"`
	ShowVersion     bool
}

// ParseServer parses environment and flags into a Server config.
func ParseServer(fs *flag.FlagSet, args []string) (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address (default: TXT_ADDR)")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Document storage: sqlite or postgres")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to sqlite database (default: TXT_SERVER_DB_PATH)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres connection string (default: TXT_DATABASE_URL)")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address for cross-instance fan-out; empty disables it")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.Float64Var(&cfg.CreateRate, "create-rate", cfg.CreateRate, "Document creations per second allowed per client IP")
	fs.IntVar(&cfg.CreateBurst, "create-burst", cfg.CreateBurst, "Burst of document creations allowed per client IP")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	fs.BoolVar(&cfg.MDNS, "mdns", cfg.MDNS, "Advertise the server on the local network via mDNS")
	if err := fs.Parse(args); err != nil {
		return Server{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks the server configuration.
func (c Server) Validate() error {
	switch c.Storage {
	case StorageSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("%w: sqlite storage requires a database path", ErrInvalidConfig)
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: postgres storage requires a database URL", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, c.Storage)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: listen address is required", ErrInvalidConfig)
	}
	if c.CreateRate <= 0 || c.CreateBurst <= 0 {
		return fmt.Errorf("%w: create rate and burst must be positive", ErrInvalidConfig)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
