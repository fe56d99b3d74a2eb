package admission

import (
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbforge/amphorad/internal/config"
)

func newTestGate(t *testing.T, limit config.Limit) *Gate {
	t.Helper()
	return NewGate(limit, logr.Discard(), prometheus.NewRegistry())
}

func TestGate_NetZeroLifecycle(t *testing.T) {
	t.Parallel()
	g := newTestGate(t, config.NewLimit(4))

	assert.Equal(t, 0, g.InFlight())
	require.NoError(t, g.Admit("amp-1", PriorityNormal))
	assert.True(t, g.Holds("amp-1"))
	assert.Equal(t, 1, g.InFlight())

	g.Release("amp-1")
	assert.False(t, g.Holds("amp-1"))
	assert.Equal(t, 0, g.InFlight())
}

func TestGate_RejectsAtCapacity(t *testing.T) {
	t.Parallel()
	g := newTestGate(t, config.NewLimit(2))

	require.NoError(t, g.Admit("amp-1", PriorityNormal))
	require.NoError(t, g.Admit("amp-2", PriorityNormal))

	err := g.Admit("amp-3", PriorityNormal)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAtCapacity)
	assert.Equal(t, 2, g.InFlight())

	// Capacity frees up once a ticket is released.
	g.Release("amp-1")
	assert.NoError(t, g.Admit("amp-3", PriorityNormal))
}

func TestGate_UnlimitedAdmitsUnconditionally(t *testing.T) {
	t.Parallel()
	g := newTestGate(t, config.Unlimited())

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, g.Admit(id, PriorityFailover))
	}
	assert.Equal(t, 5, g.InFlight())
}

func TestGate_ReleaseIsIdempotent(t *testing.T) {
	t.Parallel()
	g := newTestGate(t, config.NewLimit(1))

	require.NoError(t, g.Admit("amp-1", PriorityNormal))
	g.Release("amp-1")
	g.Release("amp-1")
	g.Release("never-admitted")
	assert.Equal(t, 0, g.InFlight())
}

func TestGate_RejectsDuplicateTicket(t *testing.T) {
	t.Parallel()
	g := newTestGate(t, config.NewLimit(4))

	require.NoError(t, g.Admit("amp-1", PriorityNormal))
	err := g.Admit("amp-1", PriorityFailover)
	require.Error(t, err)
	assert.Equal(t, 1, g.InFlight())
}

func TestGate_ConcurrentAdmitRelease(t *testing.T) {
	t.Parallel()
	g := newTestGate(t, config.Unlimited())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a'+n%26)) + "-amp"
			_ = g.Admit(id, PriorityNormal)
			g.Release(id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, g.InFlight())
}
