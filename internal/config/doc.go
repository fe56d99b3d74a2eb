// Package config defines the configuration model for the amphora
// provisioning worker.
//
// The [Config] struct is the canonical representation of the worker's
// settings: compute driver selection, default flavor and image, boot
// networks, admission-control build limit, readiness poll bounds, and
// certificate material sources. It is loaded once at process start and
// passed explicitly into each component's constructor; no component
// reaches into ambient global state.
package config
