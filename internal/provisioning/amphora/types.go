package amphora

import (
	"github.com/lbforge/amphorad/internal/admission"
	"github.com/lbforge/amphorad/internal/platform/compute"
)

// Flavor carries per-request overrides for the global defaults.
type Flavor struct {
	// ComputeFlavor overrides the configured flavor id when set.
	ComputeFlavor string
	// Topology overrides the configured load balancer topology when set.
	Topology string
}

// AvailabilityZone is the zone metadata attached to a provision request.
type AvailabilityZone struct {
	// Name is the backend zone the instance lands in.
	Name string
	// ManagementNetwork, when set, replaces the configured boot network
	// list entirely (it is not merged) and is used to resolve the
	// instance's management address during readiness polling.
	ManagementNetwork string
}

// PlacementGroup is the handle of an allocated anti-affinity group.
type PlacementGroup struct {
	ID     string
	Policy string
}

// ProvisionRequest describes one amphora to provision. It is immutable
// once handed to the saga.
type ProvisionRequest struct {
	AmphoraID      string
	LoadBalancerID string
	Priority       admission.Priority

	// Flavor, when non-nil, overrides the configured flavor/topology.
	Flavor *Flavor

	// AvailabilityZone, when non-nil, pins the instance to a zone.
	AvailabilityZone *AvailabilityZone

	// PortIDs are pre-allocated network port references to attach.
	PortIDs []string

	// PlacementGroupID reuses an existing group instead of creating one.
	PlacementGroupID string

	// BootConfig is an optional pre-built boot-time payload
	// (path -> contents); the cert create step adds material to it.
	BootConfig map[string]string

	// ServerPEM is the encrypted server certificate blob for this
	// amphora; required by the certificate-injecting create step.
	ServerPEM string
}

// State carries results across the steps of one provisioning saga. It is
// owned by that saga instance and must not be shared between sagas.
type State struct {
	// PlacementGroup is set by the group create step.
	PlacementGroup PlacementGroup
	// ComputeID is set by the instance create step and consumed by the
	// readiness poller and by revert/delete.
	ComputeID string
	// Instance is the normalized description the poller resolved.
	Instance compute.Instance
}

// BootConfigBuilder generates the amphora's boot-time agent payload.
// Generation itself lives outside this package; the create step merges
// the builder's output into the request payload.
type BootConfigBuilder interface {
	Build(amphoraID, topology string) (map[string]string, error)
}

// Well-known paths the cert create step injects material at.
const (
	serverCertPath = "/etc/amphora/certs/server.pem"
	clientCAPath   = "/etc/amphora/certs/client_ca.pem"
)
