// Package api
// Author: momentics@gmail.com
//
// Line-oriented append-only log file store.

package api

// LogStore manages named append-only text files.
type LogStore interface {
	// Open opens name for appending. Opening an open name is a no-op.
	Open(name string) error
	// Write appends a timestamped line. Returns ErrNotOpen for unknown names.
	Write(name, message string) error
	// ReadAll returns every non-empty line of the file in order.
	ReadAll(name string) ([]string, error)
	// Close closes name. Closing a name that is not open is a no-op.
	Close(name string) error
}
