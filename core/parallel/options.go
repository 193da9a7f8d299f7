// File: core/parallel/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package parallel

import (
	"time"

	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/api"
)

// DefaultWorkers is the worker count used when WithWorkers is not given.
const DefaultWorkers = 4

// CallStats describes one finished Map/MapErr call.
type CallStats struct {
	Items     int
	Workers   int
	PerWorker []int // items transformed by each worker
	Duration  time.Duration
	Err       error
}

// Observer receives the stats of every call after its workers are joined.
type Observer interface {
	ObserveMap(stats CallStats)
}

// Option configures a single call.
type Option func(*config)

type config struct {
	workers  int
	logger   *zap.Logger
	observer Observer
	pinCPU   bool
}

// WithWorkers sets the number of worker goroutines; it must be at least 1.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLogger sets the logger for call summaries.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver attaches a stats sink, typically metrics.
func WithObserver(o Observer) Option {
	return func(c *config) { c.observer = o }
}

// WithCPUPinning locks each worker to its own OS thread and, where the
// platform allows, to one CPU of the process affinity set.
func WithCPUPinning(on bool) Option {
	return func(c *config) { c.pinCPU = on }
}

func newConfig(opts []Option) (*config, error) {
	c := &config{
		workers: DefaultWorkers,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "parallel: worker count must be at least 1").
			WithContext("workers", c.workers)
	}
	return c, nil
}
