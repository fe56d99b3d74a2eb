// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic
// and can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/lbforge/amphorad/internal/admission"
	"github.com/lbforge/amphorad/internal/config"
	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/provisioning/amphora"
)

// ProvisionOptions carries the provision command's flag values.
type ProvisionOptions struct {
	ConfigPath        string
	LoadBalancerID    string
	Replicas          int
	Zone              string
	ManagementNetwork string
	Failover          bool
}

// instanceProvisioner is the slice of amphora.Provisioner the handler
// needs; tests substitute it.
type instanceProvisioner interface {
	Provision(ctx context.Context, req amphora.ProvisionRequest) (compute.Instance, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads the configuration from file.
	loadConfigFile = config.LoadFile

	// newComputeDriver builds the configured compute driver.
	newComputeDriver = compute.NewDriver

	// newProvisioner wires the provisioning saga's collaborators.
	newProvisioner = func(driver compute.Driver, cfg *config.Config, gate *admission.Gate, log logr.Logger) instanceProvisioner {
		return amphora.NewProvisioner(driver, cfg, gate, nil, log)
	}

	// newAmphoraID generates ids for the amphorae being built.
	newAmphoraID = uuid.NewString
)

// Provision builds opts.Replicas amphorae for one load balancer.
//
// The builds run concurrently and share one admission gate, so the
// configured build limit holds across the whole batch. A failed build
// cleans up after itself; the remaining builds keep running and the
// first failure is reported.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	if opts.Replicas < 1 {
		return fmt.Errorf("replicas must be at least 1, got %d", opts.Replicas)
	}

	cfg, err := loadConfigFile(opts.ConfigPath)
	if err != nil {
		return err
	}

	log := newLogger()
	driver, err := newComputeDriver(cfg, log)
	if err != nil {
		return err
	}

	gate := admission.NewGate(cfg.BuildLimit, log, prometheus.NewRegistry())
	p := newProvisioner(driver, cfg, gate, log)

	priority := admission.PriorityNormal
	if opts.Failover {
		priority = admission.PriorityFailover
	}

	var zone *amphora.AvailabilityZone
	if opts.Zone != "" || opts.ManagementNetwork != "" {
		zone = &amphora.AvailabilityZone{Name: opts.Zone, ManagementNetwork: opts.ManagementNetwork}
	}

	// A plain group, not errgroup.WithContext: one failed build must not
	// cancel its siblings, which would abort them mid-saga.
	var g errgroup.Group
	instances := make([]compute.Instance, opts.Replicas)
	for i := 0; i < opts.Replicas; i++ {
		g.Go(func() error {
			inst, err := p.Provision(ctx, amphora.ProvisionRequest{
				AmphoraID:        newAmphoraID(),
				LoadBalancerID:   opts.LoadBalancerID,
				Priority:         priority,
				AvailabilityZone: zone,
			})
			if err != nil {
				return err
			}
			instances[i] = inst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("provisioning failed: %w", err)
	}

	for _, inst := range instances {
		fmt.Printf("amphora ready: compute=%s management-ip=%s\n", inst.ID, inst.ManagementIP)
	}
	return nil
}
