package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config represents the overall library configuration structure.
// It includes sections for HTTP client behavior and logging preferences.
// The embedded koanf.Koanf instance allows for flexible access to
// additional custom configurations not explicitly defined in the struct.
type Config struct {
	Client ClientConfig `koanf:"client" json:"client" yaml:"client" toml:"client" mapstructure:"client"`
	Log    LogConfig    `koanf:"log" json:"log" yaml:"log" toml:"log" mapstructure:"log"`

	// k holds the underlying Koanf instance for flexible access to custom configurations
	k *koanf.Koanf `json:"-" yaml:"-" toml:"-" mapstructure:"-"`
}

// ClientConfig holds HTTP client settings.
type ClientConfig struct {
	// Timeout is the per-request deadline applied when a request does not
	// set its own. Default: 2s.
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" toml:"timeout" mapstructure:"timeout" validate:"min=0"`

	Retry   RetryConfig   `koanf:"retry" json:"retry" yaml:"retry" toml:"retry" mapstructure:"retry"`
	Payload PayloadConfig `koanf:"payload" json:"payload" yaml:"payload" toml:"payload" mapstructure:"payload"`
	Auth    AuthConfig    `koanf:"auth" json:"auth" yaml:"auth" toml:"auth" mapstructure:"auth"`

	// Headers are default headers attached to every outgoing request,
	// ahead of any headers set on the request itself.
	Headers map[string]string `koanf:"headers" json:"headers" yaml:"headers" toml:"headers" mapstructure:"headers" validate:"omitempty,headernames"`
}

// RetryConfig holds retry pacing settings for checked execution.
type RetryConfig struct {
	// Backoff is the base delay between retry attempts. Zero disables
	// pacing so retries fire back to back. Default: 0s.
	Backoff time.Duration `koanf:"backoff" json:"backoff" yaml:"backoff" toml:"backoff" mapstructure:"backoff" validate:"min=0"`
}

// PayloadConfig controls request and response body logging.
type PayloadConfig struct {
	// Log enables payload previews in request/response log events.
	// Default: false.
	Log bool `koanf:"log" json:"log" yaml:"log" toml:"log" mapstructure:"log"`

	// MaxBytes caps the number of payload bytes included in a preview.
	// Default: 1024.
	MaxBytes int `koanf:"maxbytes" json:"maxbytes" yaml:"maxbytes" toml:"maxbytes" mapstructure:"maxbytes" validate:"min=0"`
}

// AuthConfig holds default basic-auth credentials. Credentials are only
// applied when Username is non-empty, and a request's own credentials
// always win.
type AuthConfig struct {
	Username string `koanf:"username" json:"username" yaml:"username" toml:"username" mapstructure:"username"`
	Password string `koanf:"password" json:"password" yaml:"password" toml:"password" mapstructure:"password"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level" toml:"level" mapstructure:"level" validate:"omitempty,loglevel"`
	Pretty bool   `koanf:"pretty" json:"pretty" yaml:"pretty" toml:"pretty" mapstructure:"pretty"`
}
