// Package config loads strand's settings. Layers apply in order: built-in
// defaults, a TOML file, STRAND_* environment variables, then command-line
// flags set by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/strand/internal/bugreducer"
)

// Environment variables read by ApplyEnv.
const (
	EnvLogLevel              = "STRAND_LOG_LEVEL"
	EnvLogFormat             = "STRAND_LOG_FORMAT"
	EnvBugReducerTarget      = "STRAND_BUGREDUCER_TARGET"
	EnvBugReducerFailureKind = "STRAND_BUGREDUCER_FAILURE_KIND"
)

// Log formats.
const (
	FormatAuto    = "auto"
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config holds all settings.
type Config struct {
	Logging    LoggingConfig    `toml:"logging"`
	BugReducer BugReducerConfig `toml:"bugreducer"`
}

// LoggingConfig configures the CLI logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level"`
	// Format is auto, console or json. Auto picks console when stderr is a
	// terminal.
	Format string `toml:"format"`
}

// BugReducerConfig configures the diagnostic pass.
type BugReducerConfig struct {
	Target      string `toml:"target"`
	FailureKind string `toml:"failure_kind"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatAuto,
		},
		BugReducer: BugReducerConfig{
			FailureKind: bugreducer.None.String(),
		},
	}
}

// FileSystem abstracts file reads for testing.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns the operating system file system.
func DefaultFS() FileSystem {
	return osFS{}
}

// Load returns the defaults overlaid with the file at path (if any) and the
// environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(DefaultFS(), path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// LoadFile overlays the TOML file at path. A missing file is not an error.
// Unknown keys are rejected.
func (c *Config) LoadFile(fsys FileSystem, path string) error {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return c.parse(path, data)
}

func (c *Config) parse(source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return pe
	}
	return nil
}

// ApplyEnv overlays the STRAND_* variables found by lookup. Empty values are
// treated as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvBugReducerTarget); ok {
		c.BugReducer.Target = v
	}
	if v, ok := lookup(EnvBugReducerFailureKind); ok {
		c.BugReducer.FailureKind = v
	}
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case FormatAuto, FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("%w: logging.format: unknown format %q", ErrValidationFailed, c.Logging.Format)
	}
	if _, err := c.BugReducerConfig(); err != nil {
		return err
	}
	return nil
}

// BugReducerConfig returns the diagnostic pass configuration.
func (c *Config) BugReducerConfig() (bugreducer.Config, error) {
	mode, err := bugreducer.ParseFailureMode(c.BugReducer.FailureKind)
	if err != nil {
		return bugreducer.Config{}, fmt.Errorf("%w: bugreducer.failure_kind: %w", ErrValidationFailed, err)
	}
	cfg := bugreducer.Config{Target: c.BugReducer.Target, Mode: mode}
	if err := cfg.Validate(); err != nil {
		return bugreducer.Config{}, fmt.Errorf("%w: bugreducer: %w", ErrValidationFailed, err)
	}
	return cfg, nil
}

// ParseLogLevel parses a level name. It accepts debug, info, warn, warning
// and error in any case.
func ParseLogLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("%w: logging.level: unknown level %q", ErrValidationFailed, s)
	}
}
