package amphora

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/lbforge/amphorad/internal/admission"
	"github.com/lbforge/amphorad/internal/config"
	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/saga"
)

// ComputeCreate is the forward-allocate step for the amphora's compute
// instance. Its revert deletes the instance when, and only when, the
// forward action produced a handle.
type ComputeCreate struct {
	driver  compute.Driver
	cfg     *config.Config
	gate    *admission.Gate
	bootCfg BootConfigBuilder
	log     logr.Logger
	req     ProvisionRequest
	state   *State
}

// NewComputeCreate builds the instance create step. bootCfg may be nil
// when the request already carries a complete boot payload.
func NewComputeCreate(driver compute.Driver, cfg *config.Config, gate *admission.Gate,
	bootCfg BootConfigBuilder, log logr.Logger, req ProvisionRequest, state *State) *ComputeCreate {
	return &ComputeCreate{
		driver:  driver,
		cfg:     cfg,
		gate:    gate,
		bootCfg: bootCfg,
		log:     log.WithName("compute-create"),
		req:     req,
		state:   state,
	}
}

func (t *ComputeCreate) Name() string { return "compute-create" }

// Execute resolves the effective flavor, topology, availability zone and
// network list, registers the admission ticket, and delegates the build
// to the driver. Backend failures propagate unchanged.
func (t *ComputeCreate) Execute(ctx context.Context) (string, error) {
	return t.executeWith(ctx, t.req.BootConfig)
}

func (t *ComputeCreate) executeWith(ctx context.Context, bootConfig map[string]string) (string, error) {
	topology := t.cfg.Topology
	flavor := t.cfg.FlavorID
	if t.req.Flavor != nil {
		if t.req.Flavor.Topology != "" {
			topology = t.req.Flavor.Topology
		}
		if t.req.Flavor.ComputeFlavor != "" {
			flavor = t.req.Flavor.ComputeFlavor
		}
	}

	networks := make([]string, len(t.cfg.BootNetworks))
	copy(networks, t.cfg.BootNetworks)
	var zone string
	if az := t.req.AvailabilityZone; az != nil {
		zone = az.Name
		if az.ManagementNetwork != "" {
			// The zone's management network replaces the default
			// boot network list entirely.
			networks = []string{az.ManagementNetwork}
		}
	}

	if err := t.gate.Admit(t.req.AmphoraID, t.req.Priority); err != nil {
		return "", err
	}

	if t.bootCfg != nil {
		generated, err := t.bootCfg.Build(t.req.AmphoraID, topology)
		if err != nil {
			return "", fmt.Errorf("failed to build amphora boot config: %w", err)
		}
		merged := make(map[string]string, len(generated)+len(bootConfig))
		for path, contents := range generated {
			merged[path] = contents
		}
		for path, contents := range bootConfig {
			merged[path] = contents
		}
		bootConfig = merged
	}

	computeID, err := t.driver.Build(ctx, compute.BuildSpec{
		Name:             "amphora-" + t.req.AmphoraID,
		Flavor:           flavor,
		ImageID:          t.cfg.ImageID,
		ImageTag:         t.cfg.ImageTag,
		ImageOwner:       t.cfg.ImageOwner,
		KeyName:          t.cfg.SSHKeyName,
		SecurityGroups:   t.cfg.SecurityGroups,
		NetworkIDs:       networks,
		PortIDs:          t.req.PortIDs,
		BootConfig:       bootConfig,
		PlacementGroupID: t.placementGroupID(),
		AvailabilityZone: zone,
	})
	if err != nil {
		t.log.Error(err, "compute create failed", "amphora", t.req.AmphoraID)
		return "", err
	}

	t.log.Info("compute instance created", "amphora", t.req.AmphoraID, "compute", computeID)
	t.state.ComputeID = computeID
	return computeID, nil
}

// placementGroupID prefers the group allocated earlier in this saga over
// a pre-existing one named on the request.
func (t *ComputeCreate) placementGroupID() string {
	if t.state.PlacementGroup.ID != "" {
		return t.state.PlacementGroup.ID
	}
	return t.req.PlacementGroupID
}

// Revert deletes the instance the forward action created. When Execute
// itself failed there is no handle and nothing to undo. Delete failures
// are logged and swallowed so unwinding is never blocked.
func (t *ComputeCreate) Revert(ctx context.Context, outcome saga.Outcome[string]) {
	if !outcome.Completed() {
		return
	}
	computeID := outcome.Value()
	t.log.Info("reverting compute create", "amphora", t.req.AmphoraID, "compute", computeID)
	if err := t.driver.Delete(ctx, computeID); err != nil {
		t.log.Error(err, "reverting compute create failed", "amphora", t.req.AmphoraID, "compute", computeID)
	}
}
