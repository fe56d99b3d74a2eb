package compute

import "context"

// InstanceState is the backend-reported lifecycle state of an amphora
// instance. It is derived fresh on every status query, never persisted.
type InstanceState string

const (
	// StateBuilding means the backend is still bringing the instance up.
	StateBuilding InstanceState = "BUILDING"
	// StateActive means the instance booted and is serving.
	StateActive InstanceState = "ACTIVE"
	// StateError means the backend reported the instance as broken.
	StateError InstanceState = "ERROR"
)

// Instance is the normalized description of a compute instance as the
// provisioning layer sees it.
type Instance struct {
	// ID is the opaque backend instance identifier.
	ID string
	// State is the tri-state lifecycle status.
	State InstanceState
	// Fault carries backend-reported detail when State is StateError.
	Fault string
	// ManagementIP is the instance address on the management network,
	// when a management network was given to Status.
	ManagementIP string
}

// BuildSpec holds all parameters for building one amphora instance.
type BuildSpec struct {
	Name             string
	Flavor           string
	ImageID          string
	ImageTag         string
	ImageOwner       string
	KeyName          string
	SecurityGroups   []string
	NetworkIDs       []string
	PortIDs          []string
	BootConfig       map[string]string // target path -> file contents
	UserData         string
	PlacementGroupID string
	AvailabilityZone string
}

// Driver is the capability set consumed by the provisioning sagas.
//
// Implementations must make Delete and DeletePlacementGroup idempotent on
// not-found: deleting an instance or group that is already gone succeeds.
type Driver interface {
	// Build creates a compute instance and returns its backend id.
	Build(ctx context.Context, spec BuildSpec) (string, error)

	// Delete removes the instance. Not-found is success.
	Delete(ctx context.Context, instanceID string) error

	// Status reports the instance's current state. When managementNetwork
	// is non-empty the returned Instance carries the address the instance
	// holds on that network.
	Status(ctx context.Context, instanceID, managementNetwork string) (Instance, error)

	// CreatePlacementGroup allocates an anti-affinity group and returns its id.
	CreatePlacementGroup(ctx context.Context, name, policy string) (string, error)

	// DeletePlacementGroup removes the group. Not-found is success.
	DeletePlacementGroup(ctx context.Context, groupID string) error
}
