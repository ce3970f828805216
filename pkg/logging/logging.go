// pkg/logging/logging.go
package logging

import (
	"fmt"
	"io"
	stdLog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	// logWriter stores the current log writer globally
	logWriter io.Writer
	// logFile is set while output goes to a file opened by SetLogFile
	logFile *os.File
)

// stdLogWriter reformats stdlib log output into zerolog events
type stdLogWriter struct {
	logger zerolog.Logger
}

func (w *stdLogWriter) Write(p []byte) (n int, err error) {
	message := strings.TrimSuffix(string(p), "\n")

	// Example stdlog output: "2025/05/23 14:40:15 runner.go:35: message"
	parts := strings.SplitN(message, " ", 4)
	if len(parts) >= 4 {
		stdTime, err := time.Parse("2006/01/02 15:04:05", parts[0]+" "+parts[1])
		if err == nil {
			w.logger.Debug().
				Str("file", strings.TrimSuffix(parts[2], ":")).
				Time("time", stdTime).
				Msg(parts[3])
			return len(p), nil
		}
	}

	w.logger.Debug().Msg(message)
	return len(p), nil
}

// init sets the global logging level for zerolog to ErrorLevel by default
func init() {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	logWriter = os.Stderr
}

// ConfigureGlobalLogging configures the global logger from a level name and
// an output format ("text" or "json").
func ConfigureGlobalLogging(levelStr, format string) error {
	level := parseLogLevel(levelStr)
	zerolog.SetGlobalLevel(level)

	w, err := formatWriter(logWriter, format)
	if err != nil {
		return err
	}

	logContext := zerolog.New(w).With().Timestamp()
	if level <= zerolog.DebugLevel {
		logContext = logContext.Caller()
	}

	log.Logger = logContext.Logger().Level(level)
	zerolog.DefaultContextLogger = &log.Logger

	stdLog.SetFlags(0)
	stdLog.SetOutput(&stdLogWriter{logger: WithLevelOverride(log.Logger, zerolog.DebugLevel)})

	return nil
}

// NewLogger returns the global logger scoped to component. It follows the
// level and format set by ConfigureGlobalLogging at the time of the call.
func NewLogger(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

func formatWriter(w io.Writer, format string) (io.Writer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}, nil
	case FormatJSON:
		return w, nil
	default:
		return nil, fmt.Errorf("logging: unknown format %q (must be 'text' or 'json')", format)
	}
}

// parseLogLevel converts a string log level to zerolog.Level
func parseLogLevel(levelString string) zerolog.Level {
	if levelString == "" {
		levelString = "error"
	}

	level, err := zerolog.ParseLevel(strings.ToLower(levelString))
	if err != nil {
		log.Error().Err(err).
			Str("logLevel", levelString).
			Msg("Invalid log level provided. Defaulting to error level.")
		return zerolog.ErrorLevel
	}
	return level
}

// LevelFromVerbosity raises base by a -v count: 1 is info, 2 is debug, 3 and
// above is trace. A base that is already more verbose is kept.
func LevelFromVerbosity(base string, count int) string {
	var raised zerolog.Level
	switch {
	case count >= 3:
		raised = zerolog.TraceLevel
	case count == 2:
		raised = zerolog.DebugLevel
	case count == 1:
		raised = zerolog.InfoLevel
	default:
		return base
	}

	if base != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(base)); err == nil && lvl < raised {
			return lvl.String()
		}
	}
	return raised.String()
}

// LogWriter returns the configured log writer
func LogWriter() io.Writer {
	return logWriter
}

// SetLogWriter sets the global log writer
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// SetLogFile sends log output to path, appending to it. A file opened by an
// earlier call is closed first.
func SetLogFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("logging: open log file: %w", err)
	}
	_ = CloseLogFile()
	logFile = f
	logWriter = f
	return nil
}

// CloseLogFile closes the file opened by SetLogFile, if any, and points the
// log writer back at stderr. Call it once the command has finished.
func CloseLogFile() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	logWriter = os.Stderr
	return err
}

// LevelOverrideHook discards events below a minimum severity and assigns a
// level to NoLevel events.
type LevelOverrideHook struct {
	minSeverity zerolog.Level
	targetLevel zerolog.Level
}

// NewLevelOverrideHook creates a new LevelOverrideHook instance.
func NewLevelOverrideHook(minSeverity, targetLevel zerolog.Level) *LevelOverrideHook {
	return &LevelOverrideHook{
		minSeverity: minSeverity,
		targetLevel: targetLevel,
	}
}

// Run implements zerolog.Hook.
func (h LevelOverrideHook) Run(e *zerolog.Event, currentLevel zerolog.Level, _ string) {
	if h.minSeverity > h.targetLevel {
		e.Discard()
		return
	}

	if currentLevel == zerolog.NoLevel {
		e.Str("level", h.targetLevel.String())
	}
}

// WithLevelOverride configures a logger to handle NoLevel events and level filtering.
func WithLevelOverride(logger zerolog.Logger, targetLevel zerolog.Level) zerolog.Logger {
	return logger.Hook(NewLevelOverrideHook(logger.GetLevel(), targetLevel))
}
