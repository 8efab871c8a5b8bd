// Package transport simulates the network between the views and the
// fixture data source.
//
// Each Request waits a random latency (300 to 600 ms by default), fails with
// ErrRequestFailed at the configured rate (one in five by default) and
// otherwise returns the loader's payload. Failures are terminal: nothing is
// retried. An optional circuit breaker rejects requests with ErrCircuitOpen
// after repeated failures and raises an alert when it opens.
package transport
