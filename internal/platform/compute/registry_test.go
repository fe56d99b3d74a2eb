package compute

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbforge/amphorad/internal/config"
)

func TestNewDriver(t *testing.T) {
	t.Run("mock", func(t *testing.T) {
		driver, err := NewDriver(&config.Config{ComputeDriver: DriverMock}, logr.Discard())
		require.NoError(t, err)
		assert.IsType(t, &MockDriver{}, driver)
	})

	t.Run("hetzner requires token", func(t *testing.T) {
		t.Setenv("HCLOUD_TOKEN", "")
		_, err := NewDriver(&config.Config{ComputeDriver: DriverHetzner}, logr.Discard())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HCLOUD_TOKEN")
	})

	t.Run("hetzner", func(t *testing.T) {
		t.Setenv("HCLOUD_TOKEN", "test-token")
		driver, err := NewDriver(&config.Config{ComputeDriver: DriverHetzner}, logr.Discard())
		require.NoError(t, err)
		assert.IsType(t, &HetznerDriver{}, driver)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewDriver(&config.Config{ComputeDriver: "openstack"}, logr.Discard())
		assert.Error(t, err)
	})
}

func TestMockDriverDefaults(t *testing.T) {
	t.Parallel()
	m := &MockDriver{}
	ctx := context.Background()

	id, err := m.Build(ctx, BuildSpec{Name: "amphora-1"})
	require.NoError(t, err)
	assert.Equal(t, "mock-compute-id", id)

	assert.NoError(t, m.Delete(ctx, id))

	inst, err := m.Status(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, StateActive, inst.State)
	assert.Equal(t, id, inst.ID)

	groupID, err := m.CreatePlacementGroup(ctx, "g", "spread")
	require.NoError(t, err)
	assert.Equal(t, "mock-group-id", groupID)

	assert.NoError(t, m.DeletePlacementGroup(ctx, groupID))
}
