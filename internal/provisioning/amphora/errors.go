package amphora

import "fmt"

// BuildError indicates the backend reported the instance in an error
// state during readiness polling. It is terminal: the poller does not
// retry past it.
type BuildError struct {
	AmphoraID string
	Fault     string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("amphora %s build failed: %s", e.AmphoraID, e.Fault)
}

// WaitTimeoutError indicates the readiness poll budget was exhausted
// while the instance was still building.
type WaitTimeoutError struct {
	ComputeID string
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for compute instance %s to become active", e.ComputeID)
}
