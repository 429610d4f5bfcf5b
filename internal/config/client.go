package config

import (
	"flag"
	"fmt"
	"time"
)

// Backends of the client replica.
const (
	BackendRelay  = "relay"
	BackendMemory = "memory"
)

// Client is the configuration of cmd/client.
type Client struct {
	ServerURL         string        `env:"TXT_SERVER_URL" envDefault:"http://localhost:8080"`
	DBPath            string        `env:"TXT_CLIENT_DB_PATH" envDefault:"txtpresence-client.db"`
	PeerName          string        `env:"TXT_PEER_NAME"`
	Locator           string        `env:"TXT_LOCATOR"`
	Backend           string        `env:"TXT_BACKEND" envDefault:"relay"`
	LogLevel          string        `env:"TXT_LOG_LEVEL" envDefault:"warn"`
	ReadyTimeout      time.Duration `env:"TXT_READY_TIMEOUT" envDefault:"10s"`
	PresenceTTL       time.Duration `env:"TXT_PRESENCE_TTL" envDefault:"2s"`
	BroadcastInterval time.Duration `env:"TXT_BROADCAST_INTERVAL" envDefault:"1s"`
	ShowVersion       bool
}

// ParseClient parses environment and flags into a Client config.
func ParseClient(fs *flag.FlagSet, args []string) (Client, error) {
	var cfg Client
	if err := ParseEnv(&cfg); err != nil {
		return Client{}, err
	}

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Relay server URL (default: TXT_SERVER_URL)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to local database (default: TXT_CLIENT_DB_PATH)")
	fs.StringVar(&cfg.PeerName, "name", cfg.PeerName, "Peer name shown to other peers (default: TXT_PEER_NAME or stored name)")
	fs.StringVar(&cfg.Locator, "open", cfg.Locator, "Document locator to open on start (default: TXT_LOCATOR or stored locator)")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "Replica backend: relay or memory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.DurationVar(&cfg.ReadyTimeout, "ready-timeout", cfg.ReadyTimeout, "How long to wait for a document to become ready")
	fs.DurationVar(&cfg.PresenceTTL, "presence-ttl", cfg.PresenceTTL, "How long a silent peer stays visible")
	fs.DurationVar(&cfg.BroadcastInterval, "broadcast-interval", cfg.BroadcastInterval, "Selection re-announcement period")
	if err := fs.Parse(args); err != nil {
		return Client{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// Validate checks the client configuration.
func (c Client) Validate() error {
	if c.Backend != BackendRelay && c.Backend != BackendMemory {
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if c.Backend == BackendRelay && c.ServerURL == "" {
		return fmt.Errorf("%w: server URL is required for the relay backend", ErrInvalidConfig)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidConfig)
	}
	if c.ReadyTimeout <= 0 || c.PresenceTTL <= 0 || c.BroadcastInterval <= 0 {
		return fmt.Errorf("%w: durations must be positive", ErrInvalidConfig)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
