// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package logfile

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)
	return func() time.Time { return at }
}

func TestManager_WriteAndReadAll(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, WithClock(fixedClock()))
	defer m.Shutdown()

	for _, name := range []string{"error.log", "debug.log", "info.log"} {
		require.NoError(t, m.Open(name))
	}
	require.NoError(t, m.Write("error.log", "Database connection failed"))
	require.NoError(t, m.Write("debug.log", "User login attempt"))
	require.NoError(t, m.Write("info.log", "Server started successfully"))
	require.NoError(t, m.Write("error.log", "Retry exhausted"))

	lines, err := m.ReadAll("error.log")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"[2025-03-14 09:26:53] Database connection failed",
		"[2025-03-14 09:26:53] Retry exhausted",
	}, lines)

	lines, err = m.ReadAll("info.log")
	require.NoError(t, err)
	assert.Equal(t, []string{"[2025-03-14 09:26:53] Server started successfully"}, lines)
	assert.Equal(t, 3, m.OpenFiles())
}

func TestManager_OpenIsIdempotentAndAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n\n"), 0o644))

	m := NewManager(dir, WithClock(fixedClock()))
	require.NoError(t, m.Open("app.log"))
	require.NoError(t, m.Open("app.log"))
	assert.Equal(t, 1, m.OpenFiles())
	require.NoError(t, m.Write("app.log", "next"))
	require.NoError(t, m.Close("app.log"))

	lines, err := m.ReadAll("app.log")
	require.NoError(t, err)
	assert.Equal(t, []string{"existing", "[2025-03-14 09:26:53] next"}, lines)
}

func TestManager_WriteRequiresOpen(t *testing.T) {
	m := NewManager(t.TempDir())
	err := m.Write("missing.log", "hello")
	assert.ErrorIs(t, err, api.ErrNotOpen)

	require.NoError(t, m.Open("a.log"))
	require.NoError(t, m.Close("a.log"))
	assert.ErrorIs(t, m.Write("a.log", "after close"), api.ErrNotOpen)
}

func TestManager_CloseUnknownIsNoop(t *testing.T) {
	m := NewManager(t.TempDir())
	assert.NoError(t, m.Close("never-opened.log"))
}

func TestManager_ReadMissingFile(t *testing.T) {
	m := NewManager(t.TempDir())
	_, err := m.ReadAll("nope.log")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManager_OpenFailure(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "no", "such", "dir"))
	err := m.Open("x.log")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManager_FlushThresholdBatchesWrites(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir, WithFlushThreshold(3), WithClock(fixedClock()))
	defer m.Shutdown()
	require.NoError(t, m.Open("batch.log"))

	require.NoError(t, m.Write("batch.log", "one"))
	require.NoError(t, m.Write("batch.log", "two"))
	raw, err := os.ReadFile(filepath.Join(dir, "batch.log"))
	require.NoError(t, err)
	assert.Empty(t, raw, "lines below the threshold stay pending")

	require.NoError(t, m.Write("batch.log", "three"))
	raw, err = os.ReadFile(filepath.Join(dir, "batch.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "three")

	require.NoError(t, m.Write("batch.log", "four"))
	require.NoError(t, m.Flush())
	lines, err := m.ReadAll("batch.log")
	require.NoError(t, err)
	assert.Len(t, lines, 4)
}

func TestManager_ReadAllFlushesPending(t *testing.T) {
	m := NewManager(t.TempDir(), WithFlushThreshold(100))
	defer m.Shutdown()
	require.NoError(t, m.Open("p.log"))
	require.NoError(t, m.Write("p.log", "queued"))

	lines, err := m.ReadAll("p.log")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "] queued")
}

func TestManager_Tail(t *testing.T) {
	m := NewManager(t.TempDir(), WithClock(fixedClock()))
	defer m.Shutdown()
	require.NoError(t, m.Open("t.log"))
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Write("t.log", fmt.Sprintf("line %d", i)))
	}

	lines, err := m.Tail("t.log", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"[2025-03-14 09:26:53] line 7",
		"[2025-03-14 09:26:53] line 8",
		"[2025-03-14 09:26:53] line 9",
	}, lines)

	lines, err = m.Tail("t.log", 50)
	require.NoError(t, err)
	assert.Len(t, lines, 10)

	_, err = m.Tail("t.log", 0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	lines, err = m.Tail("t.log", math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, lines, 10)
	assert.Equal(t, "[2025-03-14 09:26:53] line 0", lines[0])
}

func TestManager_TailGrowsWindow(t *testing.T) {
	m := NewManager(t.TempDir(), WithClock(fixedClock()))
	defer m.Shutdown()
	require.NoError(t, m.Open("big.log"))
	for i := 0; i < 300; i++ {
		require.NoError(t, m.Write("big.log", fmt.Sprintf("line %d", i)))
	}

	for _, n := range []int{1, 64, 65, 150, 300, math.MaxInt32} {
		lines, err := m.Tail("big.log", n)
		require.NoError(t, err, "n=%d", n)
		want := min(n, 300)
		require.Len(t, lines, want, "n=%d", n)
		assert.Equal(t, fmt.Sprintf("[2025-03-14 09:26:53] line %d", 300-want), lines[0], "n=%d", n)
		assert.Equal(t, "[2025-03-14 09:26:53] line 299", lines[want-1], "n=%d", n)
	}
}

func TestManager_ShutdownClosesAll(t *testing.T) {
	m := NewManager(t.TempDir())
	require.NoError(t, m.Open("a.log"))
	require.NoError(t, m.Open("b.log"))
	require.NoError(t, m.Shutdown())
	assert.Zero(t, m.OpenFiles())
	assert.NoError(t, m.Shutdown())
}

func TestManager_ConcurrentWriters(t *testing.T) {
	m := NewManager(t.TempDir())
	defer m.Shutdown()
	require.NoError(t, m.Open("c.log"))

	const writers, each = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				assert.NoError(t, m.Write("c.log", fmt.Sprintf("w%d-%d", w, i)))
			}
		}(w)
	}
	wg.Wait()

	lines, err := m.ReadAll("c.log")
	require.NoError(t, err)
	assert.Len(t, lines, writers*each)
}
