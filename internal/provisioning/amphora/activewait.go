package amphora

import (
	"context"
	"time"

	"github.com/go-logr/logr"

	"github.com/lbforge/amphorad/internal/admission"
	"github.com/lbforge/amphorad/internal/config"
	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/saga"
)

// ActiveWait polls the backend until the amphora's instance reaches a
// terminal status. It returns exactly once: with the normalized instance
// on ACTIVE, a *BuildError on ERROR, or a *WaitTimeoutError when the poll
// budget runs out while still building.
type ActiveWait struct {
	driver   compute.Driver
	gate     *admission.Gate
	retries  int
	interval time.Duration
	log      logr.Logger
	req      ProvisionRequest
	state    *State
}

// NewActiveWait builds the readiness poll step. Retries and the fixed
// sleep interval come from configuration.
func NewActiveWait(driver compute.Driver, cfg *config.Config, gate *admission.Gate,
	log logr.Logger, req ProvisionRequest, state *State) *ActiveWait {
	return &ActiveWait{
		driver:   driver,
		gate:     gate,
		retries:  cfg.ActiveRetries,
		interval: cfg.ActiveWaitInterval(),
		log:      log.WithName("active-wait"),
		req:      req,
		state:    state,
	}
}

func (t *ActiveWait) Name() string { return "active-wait" }

// Execute runs the poll loop. The sleep between polls holds no locks and
// is cut short by context cancellation.
func (t *ActiveWait) Execute(ctx context.Context) (compute.Instance, error) {
	var managementNetwork string
	if t.req.AvailabilityZone != nil {
		managementNetwork = t.req.AvailabilityZone.ManagementNetwork
	}
	computeID := t.state.ComputeID

	for i := 0; i < t.retries; i++ {
		inst, err := t.driver.Status(ctx, computeID, managementNetwork)
		if err != nil {
			return compute.Instance{}, err
		}

		switch inst.State {
		case compute.StateActive:
			t.gate.Release(t.req.AmphoraID)
			t.log.Info("amphora active", "amphora", t.req.AmphoraID, "compute", computeID, "polls", i+1)
			t.state.Instance = inst
			return inst, nil
		case compute.StateError:
			return compute.Instance{}, &BuildError{AmphoraID: t.req.AmphoraID, Fault: inst.Fault}
		}

		if err := sleep(ctx, t.interval); err != nil {
			return compute.Instance{}, err
		}
	}

	return compute.Instance{}, &WaitTimeoutError{ComputeID: computeID}
}

// Revert has nothing to undo; the orchestrator owns the abort-path
// ticket release.
func (t *ActiveWait) Revert(context.Context, saga.Outcome[compute.Instance]) {}

// sleep blocks for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
