//go:build !linux
// +build !linux

// File: core/parallel/pin_other.go
// Author: momentics <momentics@gmail.com>
//
// Pinning fallback: the worker only locks its OS thread.

package parallel

import (
	"runtime"

	"go.uber.org/zap"
)

func pinWorker(worker int, logger *zap.Logger) (release func(), err error) {
	runtime.LockOSThread()
	return runtime.UnlockOSThread, nil
}
