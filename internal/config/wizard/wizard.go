package wizard

import (
	"context"
	"fmt"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	// Backend
	ComputeDriver string

	// Instance shape
	Flavor   string
	ImageTag string
	Topology string

	// Networking
	BootNetworks   []string
	SecurityGroups []string
	SSHKeyName     string

	// Build behavior
	BuildLimit   string // positive integer or "unlimited"
	AntiAffinity bool
}

// RunWizard runs the interactive configuration wizard. The context is
// used for cancellation support (e.g. Ctrl+C).
func RunWizard(ctx context.Context) (*Result, error) {
	result := &Result{}

	if err := runBackendGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	if err := runInstanceGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("instance: %w", err)
	}

	if err := runNetworkingGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("networking: %w", err)
	}

	if err := runBuildGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("build behavior: %w", err)
	}

	return result, nil
}
