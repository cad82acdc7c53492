package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variables consulted by Load.
// RESTKIT_CLIENT_TIMEOUT maps to the client.timeout key, and so on.
const EnvPrefix = "RESTKIT_"

// DefaultConfigFile is the YAML file Load looks for in the working directory.
const DefaultConfigFile = "config.yaml"

// Load loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. The config.yaml file, when present
// 3. Default values (lowest priority)
func Load() (*Config, error) {
	return LoadFile(DefaultConfigFile)
}

// LoadFile is Load with an explicit YAML file path. A missing file is not
// an error; a file that exists but fails to parse is.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(envprovider.Provider(".", envprovider.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// Convert RESTKIT_UPPER_CASE to lower.case for koanf
			key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", ".")
			return key, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return finalize(k)
}

// LoadYAML builds configuration from raw YAML bytes layered over the
// defaults. Environment variables are not consulted, which makes it
// convenient for tests and embedded configuration.
func LoadYAML(data []byte) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	return finalize(k)
}

func finalize(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Store the Koanf instance for flexible access
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"client.timeout":          "2s",
		"client.retry.backoff":    "0s",
		"client.payload.log":      false,
		"client.payload.maxbytes": 1024,

		// Auth defaults not provided for deterministic behavior
		// Credentials are only applied when explicitly configured

		"log.level":  "info",
		"log.pretty": false,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}
