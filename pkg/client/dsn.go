package client

import (
	"fmt"
	"strconv"
	"strings"

	go_ora "github.com/sijms/go-ora/v2"
)

// defaultOraclePort is the standard Oracle listener port.
const defaultOraclePort = 1521

// ConnectionURL builds a go-ora connection URL from the client
// configuration. The DSN may be a full oracle:// URL (used as-is) or an
// easy-connect string of the form host[:port]/service.
func ConnectionURL(cfg Config) (string, error) {
	if strings.HasPrefix(strings.ToLower(cfg.DSN), "oracle://") {
		return cfg.DSN, nil
	}

	host, port, service, err := parseEasyConnect(cfg.DSN)
	if err != nil {
		return "", err
	}

	return go_ora.BuildUrl(host, port, service, cfg.User, cfg.Password, nil), nil
}

// parseEasyConnect parses an Oracle easy-connect string: host[:port]/service.
func parseEasyConnect(dsn string) (host string, port int, service string, err error) {
	addr, service, ok := strings.Cut(dsn, "/")
	if !ok || service == "" {
		return "", 0, "", fmt.Errorf("invalid dsn %q: expected host[:port]/service", dsn)
	}

	host = addr
	port = defaultOraclePort
	if h, p, ok := strings.Cut(addr, ":"); ok {
		host = h
		port, err = strconv.Atoi(p)
		if err != nil {
			return "", 0, "", fmt.Errorf("invalid dsn %q: bad port %q", dsn, p)
		}
	}
	if host == "" {
		return "", 0, "", fmt.Errorf("invalid dsn %q: missing host", dsn)
	}

	return host, port, service, nil
}
