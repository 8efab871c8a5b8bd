// Package fixtures loads the static dashboard, Q&A and graph collections.
//
// Collections are read from a directory (dashboard, search and graph files
// with a .json, .yaml or .yml extension) or from the copies embedded in the
// binary. Malformed JSON is repaired when possible, every record is
// validated, and the three files are read concurrently. A Store keeps the
// current snapshot and a Watcher reloads it when files change.
package fixtures
