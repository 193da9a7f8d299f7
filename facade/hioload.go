// File: facade/hioload.go
// Unified facade layer for hioload-ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Toolkit aggregates the control plane of hioload-ring behind a single
// type: the live config store, logger, Prometheus metrics, debug probes and
// the log file manager. It hands out ring buffers and per-call parallel map
// options derived from the current configuration. The ring buffers and the
// parallel map themselves stay free of locks and of any facade state.

package facade

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/core/parallel"
	"github.com/momentics/hioload-ring/core/ring"
	"github.com/momentics/hioload-ring/logfile"
)

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*Toolkit)(nil)

// Toolkit is the main facade type.
type Toolkit struct {
	store   *control.Store
	metrics *control.Metrics
	debug   *control.DebugProbes
	logs    *logfile.Manager
	logger  *zap.Logger

	mu       sync.Mutex
	shutdown bool
}

// New constructs a Toolkit from cfg (defaults when nil). A nil logger is
// built from cfg.Log.
func New(cfg *control.Config, logger *zap.Logger) (*Toolkit, error) {
	if cfg == nil {
		cfg = control.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("facade: %w", err)
	}
	if logger == nil {
		logger = control.NewLogger(cfg.Log)
	}

	tk := &Toolkit{
		store:  control.NewStore(cfg),
		debug:  control.NewDebugProbes(),
		logger: logger.With(zap.String("component", "facade")),
	}
	if cfg.Metrics.Enabled {
		tk.metrics = control.NewMetrics(cfg.Metrics.Namespace, logger)
	}
	tk.logs = logfile.NewManager(cfg.LogFile.Dir,
		logfile.WithFlushThreshold(cfg.LogFile.FlushThreshold),
		logfile.WithLogger(logger),
	)

	control.RegisterPlatformProbes(tk.debug)
	tk.debug.RegisterProbe("logfile.open", func() any { return tk.logs.OpenFiles() })
	tk.debug.RegisterProbe("parallel.workers", func() any { return tk.store.Snapshot().Parallel.Workers })
	tk.store.OnReload(func(c *control.Config) {
		tk.logger.Info("configuration reloaded",
			zap.Int("parallel.workers", c.Parallel.Workers),
			zap.Int("ring.capacity", c.Ring.Capacity))
	})
	return tk, nil
}

// MapOptions returns parallel map options for the current configuration.
func (tk *Toolkit) MapOptions() []parallel.Option {
	cfg := tk.store.Snapshot()
	opts := []parallel.Option{
		parallel.WithWorkers(cfg.Parallel.Workers),
		parallel.WithCPUPinning(cfg.Parallel.PinCPU),
		parallel.WithLogger(tk.logger),
	}
	if tk.metrics != nil {
		opts = append(opts, parallel.WithObserver(tk.metrics))
	}
	return opts
}

// Store returns the live configuration store.
func (tk *Toolkit) Store() *control.Store { return tk.store }

// Metrics returns the metrics, nil when disabled.
func (tk *Toolkit) Metrics() *control.Metrics { return tk.metrics }

// Debug returns the debug probe registry.
func (tk *Toolkit) Debug() api.Debug { return tk.debug }

// Logs returns the log file manager.
func (tk *Toolkit) Logs() *logfile.Manager { return tk.logs }

// Logger returns the facade logger.
func (tk *Toolkit) Logger() *zap.Logger { return tk.logger }

// Shutdown closes all log files and flushes the logger. It is idempotent.
func (tk *Toolkit) Shutdown() error {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	if tk.shutdown {
		return nil
	}
	tk.shutdown = true
	err := tk.logs.Shutdown()
	_ = tk.logger.Sync()
	return err
}

// NewRing allocates a ring buffer; capacity 0 uses the configured default.
func NewRing[T any](tk *Toolkit, capacity int) (*ring.RingBuffer[T], error) {
	if capacity == 0 {
		capacity = tk.store.Snapshot().Ring.Capacity
	}
	return ring.New[T](capacity)
}

// Map runs parallel.Map with the toolkit's current options.
func Map[In, Out any](tk *Toolkit, input []In, f func(In) Out) ([]Out, error) {
	return parallel.Map(input, f, tk.MapOptions()...)
}
