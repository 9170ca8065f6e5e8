package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/paularlott/cli"
)

// Defaults for agents that do not override them
const (
	DefaultCommunity   = "public"
	DefaultPort        = 161
	DefaultTimeout     = 2 * time.Second
	DefaultRetries     = 1
	DefaultFDBID       = 1
	DefaultMaxRows     = 100000
	DefaultConcurrency = 1
	DefaultListenAddr  = ":8080"
)

type Config struct {
	ConfigFile  string
	Inventory   string
	Community   string
	Port        int
	Timeout     time.Duration
	Retries     int
	FDBID       int
	MaxRows     int
	Concurrency int
	Switches    []string
	Exclude     []string
	LogLevel    string
	LogFormat   string
	ListenAddr  string
	APIToken    string
	MCPToken    string
}

var (
	configFile  string
	inventory   string
	community   string
	port        int
	timeout     string
	retries     int
	fdbID       int
	maxRows     int
	concurrency int
	switches    string
	exclude     string
	logLevel    string
	logFormat   string
	listenAddr  string
	apiToken    string
	mcpToken    string
)

// GetFlags returns the flags shared by every command that talks to switches.
// Zero values mean "not set" so the config file and defaults can fill them.
func GetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Usage:    "Path to a YAML config file",
			EnvVars:  []string{"PORTFINDER_CONFIG"},
			AssignTo: &configFile,
		},
		&cli.StringFlag{
			Name:     "inventory",
			Usage:    "Path to the SQLite switch inventory",
			EnvVars:  []string{"PORTFINDER_INVENTORY"},
			AssignTo: &inventory,
		},
		&cli.StringFlag{
			Name:     "community",
			Usage:    "SNMP read community (default \"public\")",
			EnvVars:  []string{"PORTFINDER_COMMUNITY"},
			AssignTo: &community,
		},
		&cli.IntFlag{
			Name:     "port",
			Usage:    "SNMP agent port (default 161)",
			EnvVars:  []string{"PORTFINDER_PORT"},
			AssignTo: &port,
		},
		&cli.StringFlag{
			Name:     "timeout",
			Usage:    "Timeout per request, e.g. 2s",
			EnvVars:  []string{"PORTFINDER_TIMEOUT"},
			AssignTo: &timeout,
		},
		&cli.IntFlag{
			Name:         "retries",
			Usage:        "Retries per request (default 1)",
			EnvVars:      []string{"PORTFINDER_RETRIES"},
			DefaultValue: -1,
			AssignTo:     &retries,
		},
		&cli.IntFlag{
			Name:     "fdb-id",
			Usage:    "Filtering database (VLAN) to walk (default 1)",
			EnvVars:  []string{"PORTFINDER_FDB_ID"},
			AssignTo: &fdbID,
		},
		&cli.IntFlag{
			Name:     "max-rows",
			Usage:    "Abort a walk after this many rows (default 100000)",
			EnvVars:  []string{"PORTFINDER_MAX_ROWS"},
			AssignTo: &maxRows,
		},
		&cli.IntFlag{
			Name:     "concurrency",
			Usage:    "Switches walked at the same time (default 1)",
			EnvVars:  []string{"PORTFINDER_CONCURRENCY"},
			AssignTo: &concurrency,
		},
		&cli.StringFlag{
			Name:     "switches",
			Usage:    "Comma-separated switch addresses or CIDR blocks",
			EnvVars:  []string{"PORTFINDER_SWITCHES"},
			AssignTo: &switches,
		},
		&cli.StringFlag{
			Name:     "exclude",
			Usage:    "Comma-separated addresses or CIDR blocks to skip",
			EnvVars:  []string{"PORTFINDER_EXCLUDE"},
			AssignTo: &exclude,
		},
		&cli.StringFlag{
			Name:         "log-level",
			Usage:        "Log level (debug, info, warn, error)",
			EnvVars:      []string{"PORTFINDER_LOG_LEVEL"},
			DefaultValue: "info",
			AssignTo:     &logLevel,
		},
		&cli.StringFlag{
			Name:         "log-format",
			Usage:        "Log format (console, json)",
			EnvVars:      []string{"PORTFINDER_LOG_FORMAT"},
			DefaultValue: "console",
			AssignTo:     &logFormat,
		},
	}
}

// GetServerFlags returns the extra flags of the serve command
func GetServerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:         "addr",
			Usage:        "Server listen address",
			EnvVars:      []string{"PORTFINDER_LISTEN_ADDR"},
			DefaultValue: DefaultListenAddr,
			AssignTo:     &listenAddr,
		},
		&cli.StringFlag{
			Name:     "api-token",
			Usage:    "API bearer token",
			EnvVars:  []string{"PORTFINDER_API_TOKEN"},
			AssignTo: &apiToken,
		},
		&cli.StringFlag{
			Name:     "mcp-token",
			Usage:    "MCP bearer token",
			EnvVars:  []string{"PORTFINDER_MCP_TOKEN"},
			AssignTo: &mcpToken,
		},
	}
}

// Load snapshots the flags, merges the config file if one was given and
// applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ConfigFile:  configFile,
		Inventory:   inventory,
		Community:   community,
		Port:        port,
		Retries:     retries,
		FDBID:       fdbID,
		MaxRows:     maxRows,
		Concurrency: concurrency,
		Switches:    ParseList(switches),
		Exclude:     ParseList(exclude),
		LogLevel:    logLevel,
		LogFormat:   logFormat,
		ListenAddr:  listenAddr,
		APIToken:    apiToken,
		MCPToken:    mcpToken,
	}

	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", timeout, err)
		}
		cfg.Timeout = d
	}

	if cfg.ConfigFile != "" {
		f, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return nil, err
		}
		if err := cfg.Merge(f); err != nil {
			return nil, err
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills every unset field
func (c *Config) ApplyDefaults() {
	if c.Community == "" {
		c.Community = DefaultCommunity
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Retries < 0 {
		c.Retries = DefaultRetries
	}
	if c.FDBID == 0 {
		c.FDBID = DefaultFDBID
	}
	if c.MaxRows == 0 {
		c.MaxRows = DefaultMaxRows
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
}

// Validate checks ranges after defaults were applied
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout %s must be positive", c.Timeout))
	}
	if c.FDBID < 0 || int64(c.FDBID) > math.MaxUint32 {
		errs = append(errs, fmt.Errorf("fdb-id %d out of range", c.FDBID))
	}
	if c.MaxRows < 0 {
		errs = append(errs, fmt.Errorf("max-rows %d must not be negative", c.MaxRows))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency %d must not be negative", c.Concurrency))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsAPIAuthEnabled checks if API authentication is configured
func (c *Config) IsAPIAuthEnabled() bool {
	return c.APIToken != ""
}

// IsMCPAuthEnabled checks if the MCP endpoint requires a token
func (c *Config) IsMCPAuthEnabled() bool {
	return c.MCPToken != ""
}

// ParseList splits a comma-separated flag value, dropping empty items
func ParseList(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
