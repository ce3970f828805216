package config

// Configuration keys. Each key doubles as the name of the flag that
// overrides it, and maps to TYPEDJOB_<SECTION>_<KEY> in the environment.
const (
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
	KeyLogFile         = "log.file"
	KeyRunnerWorkers   = "runner.workers"
	KeyRunnerQueueSize = "runner.queue_size"
)

// FlagDebug forces KeyLogLevel to debug when set.
const FlagDebug = "debug"
