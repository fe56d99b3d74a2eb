package wizard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbforge/amphorad/internal/config"
)

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amphorad.yaml")

	cfg := BuildConfig(&Result{
		ComputeDriver: "mock",
		Flavor:        "cx22",
		ImageTag:      "2025.1",
		BootNetworks:  []string{"net-mgmt"},
		BuildLimit:    "4",
	})
	require.NoError(t, WriteConfig(cfg, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "# amphorad configuration")
	assert.Contains(t, string(raw), "build_limit: 4")

	// The written file must round-trip through the loader.
	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mock", loaded.ComputeDriver)
	assert.Equal(t, 4, loaded.BuildLimit.Cap())
}

func TestValidators(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateFlavor("cx22"))
	assert.ErrorIs(t, validateFlavor("  "), errFlavorRequired)

	assert.NoError(t, validateImageTag("2025.1"))
	assert.ErrorIs(t, validateImageTag(""), errImageTagRequired)

	assert.NoError(t, validateNetworks("net-a, net-b"))
	assert.ErrorIs(t, validateNetworks(" , "), errNetworksRequired)

	assert.NoError(t, validateLimit("unlimited"))
	assert.NoError(t, validateLimit("8"))
	assert.ErrorIs(t, validateLimit("0"), errLimitInvalid)
	assert.ErrorIs(t, validateLimit("many"), errLimitInvalid)
}

func TestSplitList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b ,"))
	assert.Nil(t, splitList("  "))
}
