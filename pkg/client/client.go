// Package client provides Oracle database access for the MCP gateway:
// session management, catalog introspection, ad-hoc query execution, and
// execution-plan cost estimation.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the "oracle" database/sql driver.
	_ "github.com/sijms/go-ora/v2"
)

const (
	// defaultTimeout bounds a single session checkout, connect included.
	defaultTimeout = 120 * time.Second

	// defaultMaxOpenConns limits the connection pool size.
	defaultMaxOpenConns = 10
)

// Config holds Oracle client configuration.
type Config struct {
	User     string        `yaml:"user"`
	Password string        `yaml:"password"`
	DSN      string        `yaml:"dsn"`
	Timeout  time.Duration `yaml:"timeout"`

	MaxOpenConns int `yaml:"max_open_conns"`
}

// Client is an Oracle database client. The underlying pool exists for
// throughput; each operation checks out a dedicated session for the
// duration of the call.
type Client struct {
	db      *sql.DB
	timeout time.Duration
}

// New creates a new Oracle client.
func New(cfg Config) (*Client, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	cfg = applyDefaults(cfg)

	url, err := ConnectionURL(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("oracle", url)
	if err != nil {
		return nil, fmt.Errorf("opening oracle connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	return NewWithDB(db, cfg), nil
}

// NewWithDB creates a client over an existing database handle. Used by New
// and by tests that inject a mock handle.
func NewWithDB(db *sql.DB, cfg Config) *Client {
	cfg = applyDefaults(cfg)
	return &Client{
		db:      db,
		timeout: cfg.Timeout,
	}
}

// validateConfig validates the required configuration fields.
func validateConfig(cfg Config) error {
	if cfg.User == "" {
		return fmt.Errorf("oracle user is required")
	}
	if cfg.DSN == "" {
		return fmt.Errorf("oracle dsn is required")
	}
	return nil
}

// applyDefaults applies default values to the configuration.
func applyDefaults(cfg Config) Config {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = defaultMaxOpenConns
	}
	return cfg
}

// withSession checks out a single connection, runs fn on it, and releases
// the connection on every exit path. The context passed to fn carries the
// per-call timeout. Plan validation depends on this: Oracle's PLAN_TABLE is
// session-private, so every statement of one validation must share a
// session.
func (c *Client) withSession(ctx context.Context, fn func(ctx context.Context, conn *sql.Conn) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquiring session: %w", ErrConnection, err)
	}
	defer func() { _ = conn.Close() }()

	return fn(ctx, conn)
}

// Ping verifies database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.withSession(ctx, func(ctx context.Context, conn *sql.Conn) error {
		if err := conn.PingContext(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrConnection, err)
		}
		return nil
	})
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("closing oracle client: %w", err)
		}
	}
	return nil
}
