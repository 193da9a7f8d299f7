// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Typed configuration with YAML + environment loading and a thread-safe
// live store dispatching reload notifications.

package control

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-ring/api"
)

// DefaultEnvPrefix prefixes every environment override.
const DefaultEnvPrefix = "HIOLOAD_RING"

// Config is the complete hioload-ring configuration.
type Config struct {
	Ring     RingConfig     `yaml:"ring" env:"RING"`
	Parallel ParallelConfig `yaml:"parallel" env:"PARALLEL"`
	LogFile  LogFileConfig  `yaml:"logfile" env:"LOGFILE"`
	Log      LogConfig      `yaml:"log" env:"LOG"`
	Metrics  MetricsConfig  `yaml:"metrics" env:"METRICS"`
}

// RingConfig holds ring buffer defaults.
type RingConfig struct {
	Capacity int `yaml:"capacity" env:"CAPACITY"`
}

// ParallelConfig holds parallel map defaults.
type ParallelConfig struct {
	Workers int  `yaml:"workers" env:"WORKERS"`
	PinCPU  bool `yaml:"pin_cpu" env:"PIN_CPU"`
}

// LogFileConfig configures the log file manager.
type LogFileConfig struct {
	Dir            string `yaml:"dir" env:"DIR"`
	FlushThreshold int    `yaml:"flush_threshold" env:"FLUSH_THRESHOLD"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// debug, info, warn, error
	Level string `yaml:"level" env:"LEVEL"`
	// json, console
	Format           string   `yaml:"format" env:"FORMAT"`
	OutputPaths      []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
	EnableCaller     bool     `yaml:"enable_caller" env:"ENABLE_CALLER"`
	EnableStacktrace bool     `yaml:"enable_stacktrace" env:"ENABLE_STACKTRACE"`
}

// MetricsConfig configures Prometheus collection.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Ring:     RingConfig{Capacity: 1024},
		Parallel: ParallelConfig{Workers: 4},
		LogFile:  LogFileConfig{Dir: ".", FlushThreshold: 1},
		Log: LogConfig{
			Level:        "info",
			Format:       "json",
			OutputPaths:  []string{"stderr"},
			EnableCaller: true,
		},
		Metrics: MetricsConfig{Enabled: true, Namespace: "hioload_ring"},
	}
}

// Validate checks the values the components cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Ring.Capacity < 1:
		return invalid("ring.capacity", c.Ring.Capacity)
	case c.Parallel.Workers < 1:
		return invalid("parallel.workers", c.Parallel.Workers)
	case c.LogFile.FlushThreshold < 1:
		return invalid("logfile.flush_threshold", c.LogFile.FlushThreshold)
	case c.LogFile.Dir == "":
		return invalid("logfile.dir", c.LogFile.Dir)
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Log.OutputPaths = append([]string(nil), c.Log.OutputPaths...)
	return &cp
}

func invalid(key string, value any) error {
	return api.NewError(api.ErrCodeInvalidArgument, "invalid config value for "+key).
		WithContext(key, value)
}

// Loader loads Config with priority defaults → YAML file → environment.
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader creates a loader using DefaultEnvPrefix.
func NewLoader() *Loader {
	return &Loader{envPrefix: DefaultEnvPrefix}
}

// WithConfigPath sets the YAML file path. A missing file keeps defaults.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator adds a validator run after Config.Validate.
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load builds the configuration.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}
	if err := setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}
	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		tag := t.Field(i).Tag.Get("env")
		if tag == "" || tag == "-" {
			continue
		}
		key := prefix + "_" + tag
		if field.Kind() == reflect.Struct {
			if err := setFieldsFromEnv(field, key); err != nil {
				return err
			}
			continue
		}
		raw, ok := os.LookupEnv(key)
		if !ok || raw == "" {
			continue
		}
		if err := setFieldValue(field, raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func setFieldValue(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		parts := strings.Split(raw, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		field.Set(reflect.ValueOf(parts))
	default:
		return fmt.Errorf("unsupported field type %s", field.Kind())
	}
	return nil
}

// Store holds the live configuration and notifies listeners on change.
type Store struct {
	mu        sync.RWMutex
	config    *Config
	listeners []func(*Config)
}

// NewStore initializes a store with cfg, or defaults when cfg is nil.
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Store{config: cfg.Clone()}
}

// Snapshot returns a copy of the current configuration.
func (s *Store) Snapshot() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Clone()
}

// Update applies fn to a copy of the configuration and installs it if it
// validates. Listeners run synchronously, in registration order, with the
// new snapshot.
func (s *Store) Update(fn func(*Config)) error {
	s.mu.Lock()
	next := s.config.Clone()
	fn(next)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.config = next
	listeners := append([]func(*Config){}, s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(next.Clone())
	}
	return nil
}

// OnReload registers a listener called after every successful Update.
func (s *Store) OnReload(fn func(*Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
