// Package compute defines the capability contract against the compute
// backend that builds and tears down amphora instances.
//
// The Driver interface is the only surface the provisioning sagas see.
// One concrete implementation is selected at startup from configuration
// (see NewDriver) and passed by reference into every component that
// needs it. HetznerDriver is the production implementation on the
// Hetzner Cloud API; MockDriver is a function-field test double.
package compute
