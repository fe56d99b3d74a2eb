package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts bounds the compute driver's backend calls.
type Timeouts struct {
	ServerCreate      time.Duration // instance build, including the action wait
	Delete            time.Duration // any delete operation
	RetryMaxAttempts  int           // API retry budget
	RetryInitialDelay time.Duration // first retry backoff
}

// LoadTimeouts reads the timeout configuration from the environment:
// AMPHORAD_TIMEOUT_SERVER_CREATE (default 10m), AMPHORAD_TIMEOUT_DELETE
// (5m), AMPHORAD_RETRY_MAX_ATTEMPTS (5) and AMPHORAD_RETRY_INITIAL_DELAY
// (1s). Unset or unparseable variables keep their default.
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ServerCreate:      envDuration("AMPHORAD_TIMEOUT_SERVER_CREATE", 10*time.Minute),
		Delete:            envDuration("AMPHORAD_TIMEOUT_DELETE", 5*time.Minute),
		RetryMaxAttempts:  envInt("AMPHORAD_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: envDuration("AMPHORAD_RETRY_INITIAL_DELAY", time.Second),
	}
}

func envDuration(name string, fallback time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
