//go:build linux
// +build linux

// File: core/parallel/pin_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux worker pinning through sched_setaffinity.

package parallel

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// cpuSetSize mirrors CPU_SETSIZE.
const cpuSetSize = 1024

// Replaced in tests.
var (
	getAffinity = unix.SchedGetaffinity
	setAffinity = unix.SchedSetaffinity
)

// pinWorker locks the calling goroutine to its OS thread and binds that
// thread to one CPU of the current affinity set, chosen by worker index.
// release restores the previous affinity and unlocks the thread. When the
// restore fails the thread stays locked, so the runtime discards it once the
// worker goroutine exits instead of reusing a pinned thread.
func pinWorker(worker int, logger *zap.Logger) (release func(), err error) {
	runtime.LockOSThread()
	var prev unix.CPUSet
	if err := getAffinity(0, &prev); err != nil {
		return runtime.UnlockOSThread, fmt.Errorf("sched_getaffinity: %w", err)
	}
	allowed := make([]int, 0, prev.Count())
	for c := 0; c < cpuSetSize; c++ {
		if prev.IsSet(c) {
			allowed = append(allowed, c)
		}
	}
	if len(allowed) == 0 {
		return runtime.UnlockOSThread, fmt.Errorf("empty affinity set")
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(allowed[worker%len(allowed)])
	if err := setAffinity(0, &set); err != nil {
		return runtime.UnlockOSThread, fmt.Errorf("sched_setaffinity: %w", err)
	}
	return func() {
		if err := setAffinity(0, &prev); err != nil {
			logger.Warn("worker affinity restore failed, retiring thread",
				zap.Int("worker", worker), zap.Error(err))
			return
		}
		runtime.UnlockOSThread()
	}, nil
}
