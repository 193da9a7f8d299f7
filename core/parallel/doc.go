// File: core/parallel/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package parallel applies a transform over a slice with a fixed number of
// worker goroutines. The input is cut into contiguous ranges, one per
// worker; every worker writes only its own index range of a pre-sized
// output, so the output needs no locking and keeps input order. A call
// spawns its workers, joins all of them and only then returns. There is no
// pooling across calls and no cancellation of a running call.
package parallel
