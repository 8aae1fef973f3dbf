// Package httpclient provides standardized HTTP client construction for
// calls to external services.
package httpclient

import (
	"net/http"
	"time"
)

// Default transport settings.
const (
	DefaultTimeout               = 30 * time.Second
	DefaultMaxIdleConns          = 100
	DefaultMaxIdleConnsPerHost   = 10
	DefaultIdleConnTimeout       = 90 * time.Second
	DefaultResponseHeaderTimeout = 30 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
)

// Config configures an HTTP client.
type Config struct {
	// Timeout is the time limit for requests made by the client.
	Timeout time.Duration
	// MaxIdleConns controls the maximum idle connections across all hosts.
	MaxIdleConns int
	// MaxIdleConnsPerHost controls the maximum idle connections per host.
	MaxIdleConnsPerHost int
	// IdleConnTimeout is how long an idle connection is kept before closing.
	IdleConnTimeout time.Duration
	// ResponseHeaderTimeout bounds the wait for a server's response headers.
	ResponseHeaderTimeout time.Duration
}

// New creates an HTTP client with standardized transport settings.
// Zero values in cfg fall back to the package defaults.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = DefaultMaxIdleConns
	}

	maxIdleConnsPerHost := cfg.MaxIdleConnsPerHost
	if maxIdleConnsPerHost == 0 {
		maxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}

	idleConnTimeout := cfg.IdleConnTimeout
	if idleConnTimeout == 0 {
		idleConnTimeout = DefaultIdleConnTimeout
	}

	responseHeaderTimeout := cfg.ResponseHeaderTimeout
	if responseHeaderTimeout == 0 {
		responseHeaderTimeout = DefaultResponseHeaderTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:          maxIdleConns,
			MaxIdleConnsPerHost:   maxIdleConnsPerHost,
			IdleConnTimeout:       idleConnTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		},
	}
}
