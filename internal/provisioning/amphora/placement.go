package amphora

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/saga"
)

// PlacementGroupCreate allocates the anti-affinity group all of a load
// balancer's amphorae share.
type PlacementGroupCreate struct {
	driver compute.Driver
	policy string
	log    logr.Logger
	lbID   string
	state  *State
}

// NewPlacementGroupCreate builds the group create step.
func NewPlacementGroupCreate(driver compute.Driver, policy string, log logr.Logger, lbID string, state *State) *PlacementGroupCreate {
	return &PlacementGroupCreate{
		driver: driver,
		policy: policy,
		log:    log.WithName("placement-group-create"),
		lbID:   lbID,
		state:  state,
	}
}

func (t *PlacementGroupCreate) Name() string { return "placement-group-create" }

// Execute allocates the group, named after the load balancer.
func (t *PlacementGroupCreate) Execute(ctx context.Context) (PlacementGroup, error) {
	name := "amphora-lb-" + t.lbID
	id, err := t.driver.CreatePlacementGroup(ctx, name, t.policy)
	if err != nil {
		return PlacementGroup{}, err
	}
	group := PlacementGroup{ID: id, Policy: t.policy}
	t.log.Info("placement group created", "loadBalancer", t.lbID, "group", id, "policy", t.policy)
	t.state.PlacementGroup = group
	return group, nil
}

// Revert deletes the allocated group; failures are logged, not re-raised.
func (t *PlacementGroupCreate) Revert(ctx context.Context, outcome saga.Outcome[PlacementGroup]) {
	if !outcome.Completed() {
		return
	}
	group := outcome.Value()
	t.log.Info("reverting placement group create", "group", group.ID)
	if err := t.driver.DeletePlacementGroup(ctx, group.ID); err != nil {
		t.log.Error(err, "failed to delete placement group, resources may still be in use", "group", group.ID)
	}
}

// PlacementGroupDelete is the delete-only variant used by teardown flows.
// It accepts an optional handle and performs zero driver calls when the
// handle is absent.
type PlacementGroupDelete struct {
	driver  compute.Driver
	log     logr.Logger
	groupID string
}

// NewPlacementGroupDelete builds the delete step; groupID may be empty.
func NewPlacementGroupDelete(driver compute.Driver, log logr.Logger, groupID string) *PlacementGroupDelete {
	return &PlacementGroupDelete{
		driver:  driver,
		log:     log.WithName("placement-group-delete"),
		groupID: groupID,
	}
}

func (t *PlacementGroupDelete) Name() string { return "placement-group-delete" }

// Execute deletes the group when a handle was given.
func (t *PlacementGroupDelete) Execute(ctx context.Context) (string, error) {
	if t.groupID == "" {
		return "", nil
	}
	if err := t.driver.DeletePlacementGroup(ctx, t.groupID); err != nil {
		return "", err
	}
	t.log.Info("placement group deleted", "group", t.groupID)
	return t.groupID, nil
}

// Revert cannot restore a deleted group.
func (t *PlacementGroupDelete) Revert(context.Context, saga.Outcome[string]) {}
