// Package repository provides read access to the amphora compute handles
// associated with a load balancer, as consumed by bulk teardown.
package repository

import (
	"context"
	"fmt"
	"sync"
)

// AmphoraReader is the read collaborator handed to teardown. Real
// deployments back it with the control plane's database; InMemory serves
// the CLI and tests.
type AmphoraReader interface {
	// AmphoraComputeIDs returns the compute handles of all amphorae
	// attached to the load balancer.
	AmphoraComputeIDs(ctx context.Context, loadBalancerID string) ([]string, error)
}

// InMemory is a process-local amphora registry keyed by load balancer id.
type InMemory struct {
	mu   sync.RWMutex
	byLB map[string][]string
}

var _ AmphoraReader = (*InMemory)(nil)

// NewInMemory creates an empty registry.
func NewInMemory() *InMemory {
	return &InMemory{byLB: make(map[string][]string)}
}

// Register records a compute handle for the load balancer.
func (r *InMemory) Register(loadBalancerID, computeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLB[loadBalancerID] = append(r.byLB[loadBalancerID], computeID)
}

// AmphoraComputeIDs returns a copy of the registered handles.
func (r *InMemory) AmphoraComputeIDs(_ context.Context, loadBalancerID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids, ok := r.byLB[loadBalancerID]
	if !ok {
		return nil, fmt.Errorf("load balancer %s has no registered amphorae", loadBalancerID)
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

// Remove drops a compute handle from the load balancer's set, if present.
func (r *InMemory) Remove(loadBalancerID, computeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.byLB[loadBalancerID]
	for i, id := range ids {
		if id == computeID {
			r.byLB[loadBalancerID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}
