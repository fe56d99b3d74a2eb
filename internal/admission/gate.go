// Package admission bounds how many amphora builds may be in flight at
// once. The Gate's ticket set is the only state shared across concurrent
// provisioning sagas.
package admission

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lbforge/amphorad/internal/config"
)

// Priority classifies a build request on its admission ticket.
type Priority string

const (
	// PriorityNormal is a regular load balancer create.
	PriorityNormal Priority = "normal"
	// PriorityFailover is a replacement build for a failed amphora.
	PriorityFailover Priority = "failover"
)

// ErrAtCapacity is returned by Admit when the gate is full.
var ErrAtCapacity = errors.New("build concurrency limit reached")

// Ticket records one admitted build request.
type Ticket struct {
	AmphoraID  string
	Priority   Priority
	EnqueuedAt time.Time
}

// Gate is the admission-control gate over in-flight builds.
//
// Invariant: at most one outstanding ticket per amphora id. A ticket is
// removed exactly once, either by the readiness poller on success or by
// the saga orchestrator on abort; Release is idempotent so the abort path
// cannot double-free a ticket the poller already released.
type Gate struct {
	limit   config.Limit
	log     logr.Logger
	metrics *gateMetrics

	mu      sync.Mutex
	tickets map[string]Ticket
}

// NewGate creates a gate with the given build-concurrency limit. Metrics
// are registered on reg; pass prometheus.NewRegistry() in tests.
func NewGate(limit config.Limit, log logr.Logger, reg prometheus.Registerer) *Gate {
	return &Gate{
		limit:   limit,
		log:     log.WithName("admission"),
		metrics: newGateMetrics(reg),
		tickets: make(map[string]Ticket),
	}
}

// Admit registers a ticket for amphoraID. Admission is unconditional when
// the limit is disabled; otherwise the gate rejects with ErrAtCapacity
// once the limit is reached. Admitting an amphora that already holds a
// ticket is an error.
func (g *Gate) Admit(amphoraID string, priority Priority) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.tickets[amphoraID]; ok {
		return fmt.Errorf("amphora %s already holds an admission ticket", amphoraID)
	}
	if !g.limit.IsUnlimited() && len(g.tickets) >= g.limit.Cap() {
		g.metrics.rejected.Inc()
		return fmt.Errorf("admitting amphora %s: %w", amphoraID, ErrAtCapacity)
	}

	g.tickets[amphoraID] = Ticket{
		AmphoraID:  amphoraID,
		Priority:   priority,
		EnqueuedAt: time.Now(),
	}
	g.metrics.admitted.Inc()
	g.metrics.inFlight.Set(float64(len(g.tickets)))
	g.log.V(1).Info("build admitted", "amphora", amphoraID, "priority", string(priority), "inFlight", len(g.tickets))
	return nil
}

// Release removes the ticket for amphoraID if present. Releasing an
// amphora with no ticket is a no-op.
func (g *Gate) Release(amphoraID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.tickets[amphoraID]; !ok {
		return
	}
	delete(g.tickets, amphoraID)
	g.metrics.released.Inc()
	g.metrics.inFlight.Set(float64(len(g.tickets)))
	g.log.V(1).Info("build ticket released", "amphora", amphoraID, "inFlight", len(g.tickets))
}

// InFlight returns the number of outstanding tickets.
func (g *Gate) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tickets)
}

// Holds reports whether amphoraID currently holds a ticket.
func (g *Gate) Holds(amphoraID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.tickets[amphoraID]
	return ok
}

type gateMetrics struct {
	inFlight prometheus.Gauge
	admitted prometheus.Counter
	rejected prometheus.Counter
	released prometheus.Counter
}

func newGateMetrics(reg prometheus.Registerer) *gateMetrics {
	factory := promauto.With(reg)
	return &gateMetrics{
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "amphora_builds_in_flight",
			Help: "Number of amphora builds currently holding an admission ticket.",
		}),
		admitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "amphora_builds_admitted_total",
			Help: "Total build requests admitted by the gate.",
		}),
		rejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "amphora_builds_rejected_total",
			Help: "Total build requests rejected because the gate was at capacity.",
		}),
		released: factory.NewCounter(prometheus.CounterOpts{
			Name: "amphora_build_tickets_released_total",
			Help: "Total admission tickets released.",
		}),
	}
}
