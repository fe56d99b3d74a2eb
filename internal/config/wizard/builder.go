package wizard

import (
	"strconv"
	"strings"

	"github.com/lbforge/amphorad/internal/config"
)

// BuildConfig creates a Config from the wizard result, with the same
// defaults LoadFile would apply.
func BuildConfig(result *Result) *config.Config {
	cfg := &config.Config{
		ComputeDriver:     result.ComputeDriver,
		BootNetworks:      result.BootNetworks,
		FlavorID:          result.Flavor,
		Topology:          result.Topology,
		ImageTag:          result.ImageTag,
		ActiveRetries:     config.DefaultActiveRetries,
		ActiveWaitSeconds: config.DefaultActiveWaitSeconds,
		AntiAffinity:      result.AntiAffinity,
		BuildLimit:        parseLimit(result.BuildLimit),
	}

	if cfg.Topology == "" {
		cfg.Topology = config.DefaultTopology
	}
	if result.SSHKeyName != "" {
		cfg.SSHKeyName = result.SSHKeyName
	}
	if len(result.SecurityGroups) > 0 {
		cfg.SecurityGroups = result.SecurityGroups
	}
	if cfg.AntiAffinity {
		cfg.AntiAffinityPolicy = config.DefaultAntiAffinityPolicy
	}

	return cfg
}

// parseLimit trusts the wizard's validation; anything unparseable is
// treated as unlimited.
func parseLimit(s string) config.Limit {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return config.NewLimit(n)
	}
	return config.Unlimited()
}
