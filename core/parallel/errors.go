// File: core/parallel/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package parallel

import (
	"fmt"

	"github.com/momentics/hioload-ring/api"
)

// WorkerError reports the failure of one worker. It matches
// api.ErrWorkerFailure with errors.Is and unwraps to the transform's error.
type WorkerError struct {
	Worker   int
	Range    api.Range
	Index    int // input index being transformed when the worker failed
	Panicked bool
	Err      error
}

func (e *WorkerError) Error() string {
	kind := "failed"
	if e.Panicked {
		kind = "panicked"
	}
	return fmt.Sprintf("parallel: worker %d %s at index %d of %s: %v", e.Worker, kind, e.Index, e.Range, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// Is makes every WorkerError match api.ErrWorkerFailure.
func (e *WorkerError) Is(target error) bool { return target == api.ErrWorkerFailure }

// PanicError wraps a value recovered from a panicking transform.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }
