// pkg/config/config.go
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/knadh/koanf/v2"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// Global Koanf instance, initialized once at startup.
var (
	k    *koanf.Koanf
	once sync.Once
)

// InitGlobalConfig initializes the global Koanf instance.
// This should be called early in the application lifecycle, before Load.
func InitGlobalConfig() {
	once.Do(func() {
		k = koanf.New(".")
	})
}

// Manager handles loading and accessing application configuration.
type Manager struct {
	koanfInstance *koanf.Koanf
	currentConfig Config
	mu            sync.RWMutex // protects currentConfig during runtime updates
}

// NewManager creates a new Manager backed by the global Koanf instance.
func NewManager() *Manager {
	InitGlobalConfig()
	return &Manager{
		koanfInstance: k,
		currentConfig: DefaultConfig(),
	}
}

// DefaultConfig returns a new Config struct populated with hardcoded default values.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
		Runner: RunnerConfig{
			Workers:   4,
			QueueSize: 100,
		},
	}
}

// Load loads configuration from defaults, the optional file at
// customConfigFilePath, TYPEDJOB_* environment variables and flags.
func (m *Manager) Load(flags *pflag.FlagSet, customConfigFilePath string) error {
	debug := false
	if flags != nil {
		if f := flags.Lookup(FlagDebug); f != nil && f.Value.String() == "true" {
			debug = true
		}
	}
	return m.LoadWithSources(DefaultSources(customConfigFilePath, flags, debug))
}

// LoadWithSources loads the given sources in ascending priority, unmarshals
// the merged result and validates it.
func (m *Manager) LoadWithSources(sources []ConfigSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ordered := append([]ConfigSource(nil), sources...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	for _, src := range ordered {
		if err := src.Load(m.koanfInstance); err != nil {
			return fmt.Errorf("config source %s: %w", src.Name(), err)
		}
	}

	var newCfg Config
	if err := m.koanfInstance.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling final config: %w", err)
	}
	m.postProcessConfig(&newCfg)

	if err := Validate(newCfg); err != nil {
		return err
	}
	m.currentConfig = newCfg

	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentConfig
}

// runtimeKeys lists the keys UpdateRuntimeValue accepts and how to coerce them.
var runtimeKeys = map[string]func(any) (any, error){
	KeyLogLevel:        func(v any) (any, error) { return cast.ToStringE(v) },
	KeyLogFormat:       func(v any) (any, error) { return cast.ToStringE(v) },
	KeyLogFile:         func(v any) (any, error) { return cast.ToStringE(v) },
	KeyRunnerWorkers:   func(v any) (any, error) { return cast.ToIntE(v) },
	KeyRunnerQueueSize: func(v any) (any, error) { return cast.ToIntE(v) },
}

// UpdateRuntimeValue sets a single key, coercing value to the key's type.
// The update is rejected, and the previous configuration kept, when the
// result fails validation.
func (m *Manager) UpdateRuntimeValue(key string, value interface{}) error {
	coerce, ok := runtimeKeys[key]
	if !ok {
		return fmt.Errorf("config: unknown key %q", key)
	}
	coerced, err := coerce(value)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.koanfInstance.Get(key)
	if err := m.koanfInstance.Set(key, coerced); err != nil {
		return fmt.Errorf("config: set %s: %w", key, err)
	}

	var newCfg Config
	err = m.koanfInstance.UnmarshalWithConf("", &newCfg, koanf.UnmarshalConf{Tag: "koanf"})
	if err == nil {
		m.postProcessConfig(&newCfg)
		err = Validate(newCfg)
	}
	if err != nil {
		_ = m.koanfInstance.Set(key, prev)
		return err
	}

	m.currentConfig = newCfg
	return nil
}

// postProcessConfig handles any adjustments needed after loading and unmarshaling.
func (m *Manager) postProcessConfig(cfg *Config) {
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// DefaultConfigAsMap converts DefaultConfig to the flat map koanf's
// confmap.Provider expects.
func DefaultConfigAsMap() map[string]interface{} {
	def := DefaultConfig()
	return map[string]interface{}{
		KeyLogLevel:  def.Log.Level,
		KeyLogFormat: def.Log.Format,
		KeyLogFile:   def.Log.File,

		KeyRunnerWorkers:   def.Runner.Workers,
		KeyRunnerQueueSize: def.Runner.QueueSize,
	}
}

// BindFlags defines the global flags that override configuration settings.
// The --config / -c flag is defined by the root command.
func BindFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig()

	flags.Bool(FlagDebug, false, "Enable debug logging")
	flags.String(KeyLogLevel, defaults.Log.Level, "Log level (trace, debug, info, warn, error)")
	flags.String(KeyLogFormat, defaults.Log.Format, "Log format (text, json)")
	flags.String(KeyLogFile, defaults.Log.File, "Path to log file (empty for stderr)")
}

// BindRunnerFlags defines the flags of commands that run jobs.
func BindRunnerFlags(flags *pflag.FlagSet) {
	defaults := DefaultConfig().Runner

	flags.Int(KeyRunnerWorkers, defaults.Workers, "Number of concurrent workers")
	flags.Int(KeyRunnerQueueSize, defaults.QueueSize, "Capacity of the submission queue")
}
