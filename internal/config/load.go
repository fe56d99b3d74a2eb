package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration from a YAML file, applies
// defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Topology == "" {
		cfg.Topology = DefaultTopology
	}
	if cfg.AntiAffinityPolicy == "" {
		cfg.AntiAffinityPolicy = DefaultAntiAffinityPolicy
	}
	if cfg.ActiveRetries == 0 {
		cfg.ActiveRetries = DefaultActiveRetries
	}
	if cfg.ActiveWaitSeconds == 0 {
		cfg.ActiveWaitSeconds = DefaultActiveWaitSeconds
	}
}

// CertKey returns the passphrase protecting stored amphora server
// certificates. The AMPHORAD_CERT_KEY environment variable wins over the
// configured key file.
func (c *Config) CertKey() ([]byte, error) {
	if key := os.Getenv("AMPHORAD_CERT_KEY"); key != "" {
		return []byte(key), nil
	}
	if c.CertKeyFile == "" {
		return nil, fmt.Errorf("no certificate key material configured")
	}
	// #nosec G304
	key, err := os.ReadFile(c.CertKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read cert key file: %w", err)
	}
	return key, nil
}
