package control

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
)

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader().WithEnvPrefix("HIOLOAD_RING_TEST_NONE").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 4, cfg.Parallel.Workers)
}

func TestLoader_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := NewLoader().
		WithConfigPath(filepath.Join(t.TempDir(), "absent.yaml")).
		WithEnvPrefix("HIOLOAD_RING_TEST_NONE").
		Load()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Ring.Capacity)
}

func TestLoader_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ring:
  capacity: 5
parallel:
  workers: 8
  pin_cpu: true
logfile:
  dir: /var/log/app
log:
  level: debug
  format: console
`), 0o644))

	t.Setenv("HIOLOAD_RING_PARALLEL_WORKERS", "2")
	t.Setenv("HIOLOAD_RING_LOG_OUTPUT_PATHS", "stdout, /tmp/x.log")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Ring.Capacity)
	assert.Equal(t, 2, cfg.Parallel.Workers)
	assert.True(t, cfg.Parallel.PinCPU)
	assert.Equal(t, "/var/log/app", cfg.LogFile.Dir)
	assert.Equal(t, 1, cfg.LogFile.FlushThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"stdout", "/tmp/x.log"}, cfg.Log.OutputPaths)
}

func TestLoader_BadInputs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ring: [unclosed"), 0o644))
	_, err := NewLoader().WithConfigPath(path).Load()
	assert.ErrorContains(t, err, "failed to parse config file")

	t.Setenv("HIOLOAD_RING_RING_CAPACITY", "many")
	_, err = NewLoader().Load()
	assert.ErrorContains(t, err, "HIOLOAD_RING_RING_CAPACITY")

	t.Setenv("HIOLOAD_RING_RING_CAPACITY", "0")
	_, err = NewLoader().Load()
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestLoader_CustomValidator(t *testing.T) {
	_, err := NewLoader().
		WithEnvPrefix("HIOLOAD_RING_TEST_NONE").
		WithValidator(func(c *Config) error {
			if c.Parallel.Workers < 8 {
				return api.NewError(api.ErrCodeInvalidArgument, "need 8 workers")
			}
			return nil
		}).
		Load()
	assert.ErrorContains(t, err, "need 8 workers")
}

func TestStore_UpdateNotifiesListeners(t *testing.T) {
	s := NewStore(nil)
	var got []int
	s.OnReload(func(c *Config) { got = append(got, c.Parallel.Workers) })
	s.OnReload(func(c *Config) { got = append(got, -c.Parallel.Workers) })

	require.NoError(t, s.Update(func(c *Config) { c.Parallel.Workers = 6 }))
	assert.Equal(t, []int{6, -6}, got)
	assert.Equal(t, 6, s.Snapshot().Parallel.Workers)

	err := s.Update(func(c *Config) { c.LogFile.FlushThreshold = 0 })
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
	assert.Len(t, got, 2, "rejected updates do not notify")
	assert.Equal(t, 1, s.Snapshot().LogFile.FlushThreshold)
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore(DefaultConfig())
	snap := s.Snapshot()
	snap.Parallel.Workers = 99
	snap.Log.OutputPaths[0] = "mutated"
	assert.Equal(t, 4, s.Snapshot().Parallel.Workers)
	assert.Equal(t, "stderr", s.Snapshot().Log.OutputPaths[0])
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, s.Update(func(c *Config) { c.Parallel.Workers = n }))
		}(i)
		go func() {
			defer wg.Done()
			assert.GreaterOrEqual(t, s.Snapshot().Parallel.Workers, 1)
		}()
	}
	wg.Wait()
}
