// Package amphora implements the compensable provisioning saga for
// load balancer worker instances.
//
// One saga runs per amphora: admit a build through the admission gate,
// optionally allocate an anti-affinity placement group, build the compute
// instance, then poll until the backend marks it active. Every step pairs
// its forward action with a best-effort undo; when a step fails, the
// completed steps are unwound in reverse order. Many sagas run
// concurrently, one per amphora, without cross-instance interference —
// the admission gate's ticket set is the only shared state.
package amphora
