// File: core/parallel/map.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package parallel

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"
)

// workerSlot is written by exactly one worker; padding keeps neighbouring
// workers off the same cache line.
type workerSlot struct {
	processed int
	_         cpu.CacheLinePad
}

// Map returns f applied to every input element, in input order.
// f must not touch shared mutable state. A panic inside f is recovered and
// returned as *WorkerError once all workers have finished; no partial output
// is returned.
func Map[In, Out any](input []In, f func(In) Out, opts ...Option) ([]Out, error) {
	return MapErr(input, func(v In) (Out, error) {
		return f(v), nil
	}, opts...)
}

// MapErr is Map for transforms that can fail. A worker stops at its first
// error; the other workers run to completion. One representative
// *WorkerError is returned after the join.
func MapErr[In, Out any](input []In, f func(In) (Out, error), opts ...Option) ([]Out, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	n := len(input)
	if n == 0 {
		cfg.finish(CallStats{Workers: cfg.workers})
		return []Out{}, nil
	}
	ranges, err := Partition(n, cfg.workers)
	if err != nil {
		return nil, err
	}

	out := make([]Out, n)
	slots := make([]workerSlot, len(ranges))
	started := time.Now()

	var g errgroup.Group
	for t, rg := range ranges {
		g.Go(func() (werr error) {
			idx := rg.Start
			defer func() {
				if r := recover(); r != nil {
					werr = &WorkerError{Worker: t, Range: rg, Index: idx, Panicked: true, Err: &PanicError{Value: r}}
				}
			}()
			if cfg.pinCPU {
				release, perr := pinWorker(t, cfg.logger)
				if perr != nil {
					cfg.logger.Debug("worker pinning unavailable", zap.Int("worker", t), zap.Error(perr))
				}
				defer release()
			}
			for ; idx < rg.End; idx++ {
				v, ferr := f(input[idx])
				if ferr != nil {
					return &WorkerError{Worker: t, Range: rg, Index: idx, Err: ferr}
				}
				out[idx] = v
				slots[t].processed++
			}
			return nil
		})
	}
	err = g.Wait()

	stats := CallStats{
		Items:     n,
		Workers:   len(ranges),
		PerWorker: make([]int, len(slots)),
		Duration:  time.Since(started),
		Err:       err,
	}
	for i := range slots {
		stats.PerWorker[i] = slots[i].processed
	}
	cfg.finish(stats)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *config) finish(stats CallStats) {
	if c.observer != nil {
		c.observer.ObserveMap(stats)
	}
	if stats.Err != nil {
		c.logger.Warn("parallel map failed",
			zap.Int("items", stats.Items),
			zap.Int("workers", stats.Workers),
			zap.Error(stats.Err))
		return
	}
	c.logger.Debug("parallel map done",
		zap.Int("items", stats.Items),
		zap.Int("workers", stats.Workers),
		zap.Duration("elapsed", stats.Duration))
}
