package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbforge/amphorad/internal/config"
)

func TestBuildConfig(t *testing.T) {
	t.Parallel()
	result := &Result{
		ComputeDriver:  "hetzner",
		Flavor:         "cx22",
		ImageTag:       "2025.1",
		Topology:       "ACTIVE_STANDBY",
		BootNetworks:   []string{"net-mgmt"},
		SecurityGroups: []string{"amphora-mgmt"},
		SSHKeyName:     "ops-key",
		BuildLimit:     "4",
		AntiAffinity:   true,
	}

	cfg := BuildConfig(result)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "hetzner", cfg.ComputeDriver)
	assert.Equal(t, "ACTIVE_STANDBY", cfg.Topology)
	assert.Equal(t, 4, cfg.BuildLimit.Cap())
	assert.Equal(t, config.DefaultAntiAffinityPolicy, cfg.AntiAffinityPolicy)
	assert.Equal(t, config.DefaultActiveRetries, cfg.ActiveRetries)
}

func TestBuildConfig_Minimal(t *testing.T) {
	t.Parallel()
	cfg := BuildConfig(&Result{
		ComputeDriver: "mock",
		Flavor:        "cx22",
		ImageTag:      "2025.1",
		BootNetworks:  []string{"net-mgmt"},
		BuildLimit:    "unlimited",
	})

	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.DefaultTopology, cfg.Topology)
	assert.True(t, cfg.BuildLimit.IsUnlimited())
	assert.Empty(t, cfg.AntiAffinityPolicy, "no policy needed when anti-affinity is off")
}

func TestParseLimit(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 8, parseLimit("8").Cap())
	assert.True(t, parseLimit("unlimited").IsUnlimited())
	assert.True(t, parseLimit("").IsUnlimited())
	assert.True(t, parseLimit("-2").IsUnlimited())
}
