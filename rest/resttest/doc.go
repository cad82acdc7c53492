// Package resttest provides an in-memory rest.Transport that deterministically
// replays scripted outcomes, so retry, timeout, and error-classification logic
// can be tested without a real network.
//
// Each simulated call consumes at most one Behavior (pass, delay, reject,
// drop, typed failure, or replay) and then resolves a response: route-scoped
// queues keyed by exact (method, URL) win over the default queue, and an
// engine with nothing queued serves a 200 with an empty body.
//
// The engine records full call history. Snapshot, the outbound/inbound logs,
// and the counters are safe to read while calls are in flight; every state
// transition is serialized through one mutex per engine. Construct one engine
// per test scenario.
package resttest
