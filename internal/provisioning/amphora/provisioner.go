package amphora

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/lbforge/amphorad/internal/admission"
	"github.com/lbforge/amphorad/internal/config"
	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/repository"
	"github.com/lbforge/amphorad/internal/saga"
)

// Provisioner assembles and runs the provisioning saga for single
// amphorae. It is safe for concurrent use; each Provision call owns its
// own saga and state.
type Provisioner struct {
	driver  compute.Driver
	cfg     *config.Config
	gate    *admission.Gate
	bootCfg BootConfigBuilder
	log     logr.Logger
}

// NewProvisioner wires the saga's collaborators once at startup.
func NewProvisioner(driver compute.Driver, cfg *config.Config, gate *admission.Gate,
	bootCfg BootConfigBuilder, log logr.Logger) *Provisioner {
	return &Provisioner{
		driver:  driver,
		cfg:     cfg,
		gate:    gate,
		bootCfg: bootCfg,
		log:     log,
	}
}

// Provision runs the full saga for one amphora: optional placement group
// allocation, instance create (with certificate injection when the
// request carries a certificate blob), then the readiness poll. On any
// step failure the completed steps are unwound in reverse order and the
// amphora's admission ticket — if the create step registered one — is
// released exactly once here on the abort path.
func (p *Provisioner) Provision(ctx context.Context, req ProvisionRequest) (compute.Instance, error) {
	state := &State{}
	s := saga.New(p.log)

	if p.cfg.AntiAffinity && req.PlacementGroupID == "" {
		saga.Add(s, NewPlacementGroupCreate(p.driver, p.cfg.AntiAffinityPolicy, p.log, req.LoadBalancerID, state))
	}

	if req.ServerPEM != "" {
		passphrase, err := p.cfg.CertKey()
		if err != nil {
			return compute.Instance{}, err
		}
		saga.Add(s, NewCertComputeCreate(p.driver, p.cfg, p.gate, p.bootCfg, p.log, req, state, passphrase))
	} else {
		saga.Add(s, NewComputeCreate(p.driver, p.cfg, p.gate, p.bootCfg, p.log, req, state))
	}

	saga.Add(s, NewActiveWait(p.driver, p.cfg, p.gate, p.log, req, state))

	if err := s.Run(ctx); err != nil {
		// The success path releases in ActiveWait; Release is
		// idempotent, so a ticket leaked by an aborted build is
		// reclaimed here without risking a double free.
		p.gate.Release(req.AmphoraID)
		return compute.Instance{}, err
	}
	return state.Instance, nil
}

// Teardown deletes every amphora attached to the load balancer and, when
// a placement group handle is supplied, the group afterwards.
func (p *Provisioner) Teardown(ctx context.Context, repo repository.AmphoraReader, lbID, placementGroupID string) error {
	s := saga.New(p.log)
	saga.Add(s, NewAmphoraeTeardown(p.driver, repo, p.log, lbID))
	saga.Add(s, NewPlacementGroupDelete(p.driver, p.log, placementGroupID))
	return s.Run(ctx)
}
