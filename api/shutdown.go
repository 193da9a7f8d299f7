// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components holding OS resources.
type GracefulShutdown interface {
	// Shutdown releases every resource held and reports the failures met
	// while doing so.
	Shutdown() error
}
