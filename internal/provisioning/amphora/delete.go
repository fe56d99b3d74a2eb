package amphora

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/repository"
	"github.com/lbforge/amphorad/internal/saga"
)

// ComputeDelete removes a single amphora's compute instance. The driver
// treats not-found as success, so retrying a teardown is safe.
type ComputeDelete struct {
	driver    compute.Driver
	log       logr.Logger
	amphoraID string
	computeID string
}

// NewComputeDelete builds the single-instance delete step.
func NewComputeDelete(driver compute.Driver, log logr.Logger, amphoraID, computeID string) *ComputeDelete {
	return &ComputeDelete{
		driver:    driver,
		log:       log.WithName("compute-delete"),
		amphoraID: amphoraID,
		computeID: computeID,
	}
}

func (t *ComputeDelete) Name() string { return "compute-delete" }

// Execute deletes the instance and propagates any failure.
func (t *ComputeDelete) Execute(ctx context.Context) (string, error) {
	if err := t.driver.Delete(ctx, t.computeID); err != nil {
		t.log.Error(err, "compute delete failed", "amphora", t.amphoraID, "compute", t.computeID)
		return "", err
	}
	t.log.Info("compute instance deleted", "amphora", t.amphoraID, "compute", t.computeID)
	return t.computeID, nil
}

// Revert cannot restore a deleted instance.
func (t *ComputeDelete) Revert(context.Context, saga.Outcome[string]) {}

// AmphoraeTeardown deletes every amphora instance attached to a load
// balancer. The first delete failure aborts the remaining iteration and
// propagates.
type AmphoraeTeardown struct {
	driver compute.Driver
	repo   repository.AmphoraReader
	log    logr.Logger
	lbID   string
}

// NewAmphoraeTeardown builds the bulk teardown step.
func NewAmphoraeTeardown(driver compute.Driver, repo repository.AmphoraReader, log logr.Logger, lbID string) *AmphoraeTeardown {
	return &AmphoraeTeardown{
		driver: driver,
		repo:   repo,
		log:    log.WithName("amphorae-teardown"),
		lbID:   lbID,
	}
}

func (t *AmphoraeTeardown) Name() string { return "amphorae-teardown" }

// Execute reads the load balancer's handles and deletes each in turn.
func (t *AmphoraeTeardown) Execute(ctx context.Context) (int, error) {
	computeIDs, err := t.repo.AmphoraComputeIDs(ctx, t.lbID)
	if err != nil {
		return 0, fmt.Errorf("failed to read amphorae for load balancer %s: %w", t.lbID, err)
	}

	for i, computeID := range computeIDs {
		if err := t.driver.Delete(ctx, computeID); err != nil {
			t.log.Error(err, "compute delete failed, aborting teardown",
				"loadBalancer", t.lbID, "compute", computeID, "deleted", i)
			return i, err
		}
	}

	t.log.Info("amphorae torn down", "loadBalancer", t.lbID, "count", len(computeIDs))
	return len(computeIDs), nil
}

// Revert cannot restore deleted instances.
func (t *AmphoraeTeardown) Revert(context.Context, saga.Outcome[int]) {}
