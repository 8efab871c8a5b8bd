// Package utils turns panics in background work into logged errors: the
// fixture watcher goroutines and the transport's payload loaders run under
// these helpers.
package utils
