// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, logging, metrics and debug introspection layer for
// hioload-ring.
//
// Provides concurrent-safe state handling primitives including:
//   - Typed configuration loaded from defaults, YAML and environment
//   - A live config store with reload listeners
//   - zap logger construction from configuration
//   - Prometheus metrics for parallel maps and ring overwrites
//   - Debug probe registration and state export
package control
