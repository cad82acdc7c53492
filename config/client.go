package config

import (
	"sort"

	"github.com/gaborage/go-restkit/logger"
	"github.com/gaborage/go-restkit/rest"
)

// NewLogger creates a logger configured from the log section.
func (c *Config) NewLogger() logger.Logger {
	return logger.New(c.Log.Level, c.Log.Pretty)
}

// ClientBuilder returns a rest.Builder primed with the client section.
// Callers can override individual settings before calling Build.
func (c *Config) ClientBuilder(log logger.Logger) *rest.Builder {
	b := rest.NewBuilder(log).
		WithTimeout(c.Client.Timeout).
		WithRetryBackoff(c.Client.Retry.Backoff).
		WithPayloadLogging(c.Client.Payload.Log).
		WithMaxPayloadLogBytes(c.Client.Payload.MaxBytes)

	if c.Client.Auth.Username != "" {
		b = b.WithBasicAuth(c.Client.Auth.Username, c.Client.Auth.Password)
	}

	// Sorted for a stable header order on the wire
	names := make([]string, 0, len(c.Client.Headers))
	for name := range c.Client.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b = b.WithDefaultHeader(name, c.Client.Headers[name])
	}

	return b
}

// NewClient builds a rest.Client from the client section.
func (c *Config) NewClient(log logger.Logger) rest.Client {
	return c.ClientBuilder(log).Build()
}
