// Package logging provides structured logging for the planner.
// It uses zerolog with optional file rotation via lumberjack.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level represents a log level.
type Level = zerolog.Level

// Log levels for convenience.
const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level
	Level Level

	// JSON selects JSON console output instead of the pretty console writer
	JSON bool

	// FilePath is the path to the log file (empty for console only)
	FilePath string

	// MaxSize is the maximum size in megabytes before rotation
	MaxSize int

	// MaxBackups is the maximum number of old log files to retain
	MaxBackups int

	// MaxAge is the maximum number of days to retain old log files
	MaxAge int

	// Compress enables gzip compression of rotated files
	Compress bool

	// Console enables console output in addition to file output
	Console bool

	// Output overrides the console writer, mostly for tests
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     7,
		Compress:   true,
		Console:    true,
	}
}

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the global logger. A nil config uses the defaults.
func Init(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var writers []io.Writer
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	if cfg.Console || cfg.FilePath == "" {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		if cfg.JSON {
			writers = append(writers, out)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
		}
	}

	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = zerolog.MultiLevelWriter(writers...)
	}

	zl := zerolog.New(output).Level(cfg.Level).With().Timestamp().Logger()

	mu.Lock()
	logger = zl
	mu.Unlock()
	return nil
}

// Options is the textual form of Config, as found in configuration files.
type Options struct {
	Level      string
	FilePath   string
	JSON       bool
	Console    bool
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// InitFromOptions parses o and initializes the global logger.
func InitFromOptions(o Options) error {
	cfg := DefaultConfig()
	if o.Level != "" {
		level, err := zerolog.ParseLevel(o.Level)
		if err != nil {
			return err
		}
		cfg.Level = level
	}
	cfg.FilePath = o.FilePath
	cfg.JSON = o.JSON
	cfg.Console = o.Console
	if o.MaxSize > 0 {
		cfg.MaxSize = o.MaxSize
	}
	if o.MaxBackups > 0 {
		cfg.MaxBackups = o.MaxBackups
	}
	if o.MaxAge > 0 {
		cfg.MaxAge = o.MaxAge
	}
	cfg.Compress = o.Compress
	return Init(cfg)
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// With returns a child logger carrying a component field.
func With(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

// Debug starts a debug event on the global logger.
func Debug() *zerolog.Event { return Get().Debug() }

// Info starts an info event on the global logger.
func Info() *zerolog.Event { return Get().Info() }

// Warn starts a warn event on the global logger.
func Warn() *zerolog.Event { return Get().Warn() }

// Error starts an error event on the global logger.
func Error() *zerolog.Event { return Get().Error() }

// Fatal starts a fatal event on the global logger; Msg exits the process.
func Fatal() *zerolog.Event { return Get().Fatal() }
