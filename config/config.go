// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"task-board-api/logging"
)

// Default values.
const (
	DefaultAddr      = ":3000"
	DefaultDriver    = "sqlite"
	DefaultDSN       = "./tasks.db"
	DefaultBasePath  = "/api"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultGinMode   = "release"
	DefaultFile      = "task-board-api.toml"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds the full server configuration.
type Config struct {
	Addr     string `toml:"addr"`
	BasePath string `toml:"base_path"`
	GinMode  string `toml:"gin_mode"`

	Store StoreConfig `toml:"store"`
	Log   LogConfig   `toml:"log"`

	// Seed inserts this many sample tasks at startup. Flag only.
	Seed int `toml:"-"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver string `toml:"driver"` // sqlite, postgres, memory
	DSN    string `toml:"dsn"`
}

// LogConfig configures the service logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text, json, logfmt
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Addr:     DefaultAddr,
		BasePath: DefaultBasePath,
		GinMode:  DefaultGinMode,
		Store: StoreConfig{
			Driver: DefaultDriver,
			DSN:    DefaultDSN,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file, the
// environment and finally command line flags.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	var (
		path   string
		addr   string
		driver string
		dsn    string
		logLvl string
		seed   int
	)
	fs.StringVar(&path, "config", "", "path to a TOML config file")
	fs.StringVar(&addr, "addr", "", "listen address")
	fs.StringVar(&driver, "driver", "", "store driver: sqlite, postgres or memory")
	fs.StringVar(&dsn, "dsn", "", "store data source name")
	fs.StringVar(&logLvl, "log-level", "", "log level: debug, info, warn, error")
	fs.IntVar(&seed, "seed", 0, "insert this many sample task items at startup")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	loadFromEnv(cfg)

	if addr != "" {
		cfg.Addr = addr
	}
	if driver != "" {
		cfg.Store.Driver = driver
	}
	if dsn != "" {
		cfg.Store.DSN = dsn
	}
	if logLvl != "" {
		cfg.Log.Level = logLvl
	}
	cfg.Seed = seed

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes TOML from path into cfg.
func LoadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("load config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// findConfigFile looks for a config file in the current directory.
func findConfigFile() string {
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("TASKAPI_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TASKAPI_BASE_PATH"); v != "" {
		cfg.BasePath = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.GinMode = v
	}
	if v := os.Getenv("TASKAPI_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Store.Driver = DriverPostgres
		cfg.Store.DSN = v
	}
	if v := os.Getenv("TASKAPI_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("TASKAPI_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TASKAPI_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres:
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		errs = append(errs, fmt.Errorf("base_path must start with /: %q", c.BasePath))
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Seed < 0 {
		errs = append(errs, fmt.Errorf("seed must not be negative: %d", c.Seed))
	}
	return errors.Join(errs...)
}

// LogOptions converts the log section into logger options.
func (c *Config) LogOptions() logging.Options {
	opts := logging.DefaultOptions()
	opts.Level = c.Log.Level
	opts.Format = c.Log.Format
	return opts
}
