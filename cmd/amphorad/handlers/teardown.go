package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lbforge/amphorad/internal/admission"
	"github.com/lbforge/amphorad/internal/config"
	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/provisioning/amphora"
	"github.com/lbforge/amphorad/internal/repository"
)

// TeardownOptions carries the teardown command's flag values.
type TeardownOptions struct {
	ConfigPath       string
	LoadBalancerID   string
	ComputeIDs       []string
	PlacementGroupID string
}

// instanceDestroyer is the slice of amphora.Provisioner teardown needs.
type instanceDestroyer interface {
	Teardown(ctx context.Context, repo repository.AmphoraReader, lbID, placementGroupID string) error
}

// newDestroyer can be replaced in tests.
var newDestroyer = func(driver compute.Driver, cfg *config.Config, gate *admission.Gate, log logr.Logger) instanceDestroyer {
	return amphora.NewProvisioner(driver, cfg, gate, nil, log)
}

// Teardown deletes the named compute handles and, when given, the load
// balancer's placement group. The first failing delete aborts the rest
// so the operation can be retried.
func Teardown(ctx context.Context, opts TeardownOptions) error {
	if len(opts.ComputeIDs) == 0 {
		return fmt.Errorf("at least one --compute-id is required")
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

	repo := repository.NewInMemory()
	for _, id := range opts.ComputeIDs {
		repo.Register(opts.LoadBalancerID, id)
	}

	gate := admission.NewGate(cfg.BuildLimit, log, prometheus.NewRegistry())
	d := newDestroyer(driver, cfg, gate, log)
	if err := d.Teardown(ctx, repo, opts.LoadBalancerID, opts.PlacementGroupID); err != nil {
		return fmt.Errorf("teardown failed: %w", err)
	}

	fmt.Printf("tore down %d amphorae for load balancer %s\n", len(opts.ComputeIDs), opts.LoadBalancerID)
	return nil
}
