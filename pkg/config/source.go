package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultEnvPrefix is the prefix of environment variables read by EnvSource.
const DefaultEnvPrefix = "TYPEDJOB_"

// Priorities of the built-in sources. A custom source slots in between
// them, e.g. a machine-wide file at PriorityFile-5.
const (
	PriorityDefaults = 10
	PriorityFile     = 20
	PriorityEnv      = 30
	PriorityFlags    = 40
)

// ConfigSource is one layer of configuration. LoadWithSources applies
// sources in ascending Priority, so a later layer wins on every key it sets.
type ConfigSource interface {
	Name() string
	Priority() int
	Load(k *koanf.Koanf) error
}

// DefaultSource loads DefaultConfig.
type DefaultSource struct{}

func (*DefaultSource) Name() string  { return "defaults" }
func (*DefaultSource) Priority() int { return PriorityDefaults }

func (*DefaultSource) Load(k *koanf.Koanf) error {
	if err := k.Load(confmap.Provider(DefaultConfigAsMap(), "."), nil); err != nil {
		return fmt.Errorf("load defaults: %w", err)
	}
	return nil
}

// FileSource loads a YAML file. An empty Path or a file that does not
// exist contributes nothing.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string  { return "file:" + s.Path }
func (s *FileSource) Priority() int { return PriorityFile }

func (s *FileSource) Load(k *koanf.Koanf) error {
	if s.Path == "" {
		return nil
	}
	if _, err := os.Stat(s.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if err := k.Load(file.Provider(s.Path), yaml.Parser()); err != nil {
		return fmt.Errorf("load %s: %w", s.Path, err)
	}
	return nil
}

// EnvSource loads variables carrying Prefix, DefaultEnvPrefix when empty.
// The first underscore after the prefix separates section from key, so
// TYPEDJOB_RUNNER_QUEUE_SIZE sets runner.queue_size.
type EnvSource struct {
	Prefix string
}

func (s *EnvSource) Name() string  { return "env" }
func (s *EnvSource) Priority() int { return PriorityEnv }

func (s *EnvSource) Load(k *koanf.Koanf) error {
	prefix := s.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	if err := k.Load(env.Provider(prefix, ".", envKey(prefix)), nil); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	return nil
}

func envKey(prefix string) func(string) string {
	return func(name string) string {
		key := strings.ToLower(strings.TrimPrefix(name, prefix))
		return strings.Replace(key, "_", ".", 1)
	}
}

// FlagSource loads flags. posflag only takes a flag's default when the key
// is not already set by a lower layer. Debug forces KeyLogLevel to debug.
type FlagSource struct {
	Flags *pflag.FlagSet
	Debug bool
}

func (s *FlagSource) Name() string  { return "flags" }
func (s *FlagSource) Priority() int { return PriorityFlags }

func (s *FlagSource) Load(k *koanf.Koanf) error {
	if s.Flags != nil {
		if err := k.Load(posflag.Provider(s.Flags, ".", k), nil); err != nil {
			return fmt.Errorf("load flags: %w", err)
		}
	}
	if s.Debug {
		if err := k.Set(KeyLogLevel, "debug"); err != nil {
			return fmt.Errorf("set %s: %w", KeyLogLevel, err)
		}
	}
	return nil
}

// DefaultSources returns defaults, the file at configPath, the environment
// and flags, in that order.
func DefaultSources(configPath string, flags *pflag.FlagSet, debug bool) []ConfigSource {
	return []ConfigSource{
		&DefaultSource{},
		&FileSource{Path: configPath},
		&EnvSource{Prefix: DefaultEnvPrefix},
		&FlagSource{Flags: flags, Debug: debug},
	}
}
