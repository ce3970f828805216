// pkg/config/types.go
package config

// Config is the root configuration structure for typedjob.
type Config struct {
	Log    LogConfig    `description:"Logging configuration" koanf:"log"`
	Runner RunnerConfig `description:"Job runner configuration" koanf:"runner"`
}

// LogConfig holds logging related configuration.
type LogConfig struct {
	Level  string `description:"Log level" koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `description:"Log format: json | text" koanf:"format" validate:"oneof=text json"`
	File   string `description:"Log file path (empty for stderr)" koanf:"file"`
}

// RunnerConfig sizes the worker pool used by 'typedjob run'.
type RunnerConfig struct {
	Workers   int `description:"Number of concurrent workers" koanf:"workers" validate:"min=1,max=1024"`
	QueueSize int `description:"Capacity of the submission queue" koanf:"queue_size" validate:"min=1,max=1000000"`
}
