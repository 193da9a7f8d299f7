// File: logfile/manager.go
// Package logfile manages named append-only text log files.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Every write is prefixed with a "[YYYY-MM-DD HH:MM:SS]" timestamp.
// Formatted lines wait in a per-file FIFO until FlushThreshold lines are
// pending, or until Flush, ReadAll, Tail or Close; a threshold of 1 writes
// through on every call.

package logfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eapache/queue"
	"go.uber.org/zap"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/ring"
)

// TimestampLayout formats the prefix of every written line.
const TimestampLayout = "2006-01-02 15:04:05"

// Ensure compile-time interface compliance.
var (
	_ api.LogStore         = (*Manager)(nil)
	_ api.GracefulShutdown = (*Manager)(nil)
)

// Manager is safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	dir   string
	files map[string]*handle

	flushThreshold int
	now            func() time.Time
	logger         *zap.Logger
}

type handle struct {
	file    *os.File
	pending *queue.Queue // formatted lines not yet written
}

// Option configures a Manager.
type Option func(*Manager)

// WithFlushThreshold sets how many lines may wait before a write hits the file.
func WithFlushThreshold(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.flushThreshold = n
		}
	}
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a manager resolving names relative to dir.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:            dir,
		files:          make(map[string]*handle),
		flushThreshold: 1,
		now:            time.Now,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(zap.String("component", "logfile"))
	return m
}

// Open opens name for appending, creating it when missing.
func (m *Manager) Open(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; ok {
		return nil
	}
	f, err := os.OpenFile(m.path(name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("logfile: open %s: %w", name, err)
	}
	m.files[name] = &handle{file: f, pending: queue.New()}
	m.logger.Debug("log file opened", zap.String("name", name))
	return nil
}

// Write appends message to name with a timestamp prefix.
func (m *Manager) Write(name, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.files[name]
	if !ok {
		return api.NewError(api.ErrCodeNotOpen, "logfile: file is not open").
			WithContext("name", name)
	}
	h.pending.Add(fmt.Sprintf("[%s] %s\n", m.now().Format(TimestampLayout), message))
	if h.pending.Length() >= m.flushThreshold {
		return h.flush(name)
	}
	return nil
}

// Flush writes every pending line of every open file.
func (m *Manager) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for name, h := range m.files {
		errs = append(errs, h.flush(name))
	}
	return errors.Join(errs...)
}

// ReadAll returns the non-empty lines of name in file order. Pending lines
// of an open file are flushed first; the file does not need to be open.
func (m *Manager) ReadAll(name string) ([]string, error) {
	var lines []string
	err := m.scan(name, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// tailWindow is the initial window size of Tail.
const tailWindow = 64

// Tail returns at most the last n non-empty lines of name, oldest first.
// The window starts small and doubles up to n, so memory follows the lines
// actually read rather than n.
func (m *Manager) Tail(name string, n int) ([]string, error) {
	if n < 1 {
		return nil, fmt.Errorf("logfile: tail %s: %w", name,
			api.NewError(api.ErrCodeInvalidArgument, "tail size must be at least 1").WithContext("n", n))
	}
	window := ring.MustNew[string](min(n, tailWindow))
	err := m.scan(name, func(line string) {
		if window.Full() && window.Cap() < n {
			window = grow(window, min(n, 2*window.Cap()))
		}
		window.PushBack(line)
	})
	if err != nil {
		return nil, err
	}
	return window.Values(), nil
}

func grow(r *ring.RingBuffer[string], capacity int) *ring.RingBuffer[string] {
	next := ring.MustNew[string](capacity)
	for v := range r.All() {
		next.PushBack(v)
	}
	return next
}

// Close flushes and closes name. Closing a name that is not open is a no-op.
func (m *Manager) Close(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.files[name]
	if !ok {
		return nil
	}
	delete(m.files, name)
	err := errors.Join(h.flush(name), h.file.Close())
	m.logger.Debug("log file closed", zap.String("name", name), zap.Error(err))
	return err
}

// Shutdown closes every open file.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	m.mu.Unlock()

	var errs []error
	for _, name := range names {
		errs = append(errs, m.Close(name))
	}
	return errors.Join(errs...)
}

// OpenFiles returns the number of open files.
func (m *Manager) OpenFiles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func (m *Manager) scan(name string, fn func(line string)) error {
	m.mu.Lock()
	if h, ok := m.files[name]; ok {
		if err := h.flush(name); err != nil {
			m.mu.Unlock()
			return err
		}
	}
	m.mu.Unlock()

	f, err := os.Open(m.path(name))
	if err != nil {
		return fmt.Errorf("logfile: read %s: %w", name, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			fn(line)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("logfile: read %s: %w", name, err)
	}
	return nil
}

func (m *Manager) path(name string) string {
	return filepath.Join(m.dir, name)
}

// flush drains pending lines into the file. Callers hold Manager.mu.
func (h *handle) flush(name string) error {
	for h.pending.Length() > 0 {
		line := h.pending.Peek().(string)
		if _, err := h.file.WriteString(line); err != nil {
			return fmt.Errorf("logfile: write %s: %w", name, err)
		}
		h.pending.Remove()
	}
	return nil
}
