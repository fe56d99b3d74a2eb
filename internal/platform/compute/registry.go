package compute

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/lbforge/amphorad/internal/config"
)

// Supported compute driver names. The driver is chosen once at process
// start from configuration and injected into every consumer.
const (
	DriverHetzner = "hetzner"
	DriverMock    = "mock"
)

// NewDriver returns the concrete driver selected by cfg.ComputeDriver.
func NewDriver(cfg *config.Config, log logr.Logger) (Driver, error) {
	switch cfg.ComputeDriver {
	case DriverHetzner:
		token := os.Getenv("HCLOUD_TOKEN")
		if token == "" {
			return nil, fmt.Errorf("HCLOUD_TOKEN environment variable is required for the %s driver", DriverHetzner)
		}
		return NewHetznerDriver(token, log), nil
	case DriverMock:
		return &MockDriver{}, nil
	default:
		return nil, fmt.Errorf("unsupported compute driver: %q", cfg.ComputeDriver)
	}
}
