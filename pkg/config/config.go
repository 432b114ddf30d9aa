// Package config loads gateway configuration from a YAML file or from the
// environment.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultRowLimit is the number of rows returned when a caller does
	// not ask for a specific limit.
	DefaultRowLimit = 1000

	// DefaultMaxRowLimit caps the rows any single call may request.
	DefaultMaxRowLimit = 10000

	// DefaultCostThreshold is the plan cost above which an advisory
	// warning is logged.
	DefaultCostThreshold = 100000
)

// Config holds the complete gateway configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Oracle OracleConfig `yaml:"oracle"`
	Query  QueryConfig  `yaml:"query"`
	Plan   PlanConfig   `yaml:"plan"`
}

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Name      string `yaml:"name"`
	Version   string `yaml:"version"`
	Transport string `yaml:"transport"` // "stdio", "http"
	Address   string `yaml:"address"`
}

// OracleConfig configures the database connection.
type OracleConfig struct {
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	DSN          string        `yaml:"dsn"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxOpenConns int           `yaml:"max_open_conns"`
}

// QueryConfig configures query execution limits and policy.
type QueryConfig struct {
	DefaultLimit   int      `yaml:"default_limit"`
	MaxLimit       int      `yaml:"max_limit"`
	ReadOnly       bool     `yaml:"read_only"`
	TableAllowlist []string `yaml:"table_allowlist"`
}

// PlanConfig configures plan-cost validation.
type PlanConfig struct {
	CostThreshold int `yaml:"cost_threshold"`
}

// Load loads configuration from a YAML file. ${VAR} references are
// expanded from the environment before parsing.
func Load(path string) (*Config, error) {
	// #nosec G304 -- path is from CLI args, controlled by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(expandEnvVars(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// FromEnv builds a configuration purely from environment variables, using
// the variable names the gateway has always honored: DWH_USERNAME,
// DWH_PASSWORD, DSN, COST_THRESHOLD, QUERY_LIMIT_SIZE, WHITELIST_TABLES.
func FromEnv() *Config {
	cfg := &Config{
		Oracle: OracleConfig{
			User:     os.Getenv("DWH_USERNAME"),
			Password: os.Getenv("DWH_PASSWORD"),
			DSN:      os.Getenv("DSN"),
		},
		Server: ServerConfig{
			Transport: os.Getenv("MCP_TRANSPORT"),
			Address:   os.Getenv("MCP_ADDRESS"),
		},
	}

	if v := os.Getenv("COST_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Plan.CostThreshold = n
		}
	}
	if v := os.Getenv("QUERY_LIMIT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Query.DefaultLimit = n
		}
	}
	if v := os.Getenv("WHITELIST_TABLES"); v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Query.TableAllowlist = append(cfg.Query.TableAllowlist, name)
			}
		}
	}

	applyDefaults(cfg)
	return cfg
}

// envVarPattern matches ${VAR} references in config files.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in the string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// applyDefaults applies default values to the config.
func applyDefaults(cfg *Config) {
	if cfg.Server.Name == "" {
		cfg.Server.Name = "mcp-oracle"
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.0.0"
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = "stdio"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Query.DefaultLimit == 0 {
		cfg.Query.DefaultLimit = DefaultRowLimit
	}
	if cfg.Query.MaxLimit == 0 {
		cfg.Query.MaxLimit = DefaultMaxRowLimit
	}
	if cfg.Plan.CostThreshold == 0 {
		cfg.Plan.CostThreshold = DefaultCostThreshold
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Oracle.User == "" {
		errs = append(errs, "oracle.user is required")
	}
	if c.Oracle.DSN == "" {
		errs = append(errs, "oracle.dsn is required")
	}
	if c.Server.Transport != "stdio" && c.Server.Transport != "http" {
		errs = append(errs, fmt.Sprintf("unknown transport %q", c.Server.Transport))
	}
	if c.Query.DefaultLimit > c.Query.MaxLimit {
		errs = append(errs, "query.default_limit must not exceed query.max_limit")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}
	return nil
}
