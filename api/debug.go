// Package api
// Author: momentics
//
// Live introspection of buffers and workers.

package api

// Debug exposes runtime introspection.
type Debug interface {
	// DumpState emits a snapshot of every registered probe.
	DumpState() map[string]any

	// RegisterProbe registers or replaces a named probe.
	RegisterProbe(name string, fn func() any)

	// UnregisterProbe drops a named probe; unknown names are ignored.
	UnregisterProbe(name string)
}
