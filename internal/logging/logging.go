// Package logging adapts go-logger to the key/value logger used by the
// renderer and the CLI.
package logging

import (
	"errors"
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// ErrUnsupportedFormat is returned for unknown log formats.
var ErrUnsupportedFormat = errors.New("unsupported log format")

// Formats accepted by Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatPretty  = "pretty"
)

// Logger receives a message and alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config selects the level and output format of a Logger.
type Config struct {
	Level  string // trace, debug, info, warn, error; empty keeps the go-logger default
	Format string // console (default), json, pretty
	Name   string // Child logger name; empty uses the root logger
}

// New builds a go-logger backed Logger.
func New(cfg Config) (Logger, error) {
	var options []glog.Option

	if level := normalizeLevel(cfg.Level); level != "" {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatConsole:
		options = append(options, glog.WithLoggerTypeConsole())
	case FormatJSON:
		options = append(options, glog.WithLoggerTypeJSON())
	case FormatPretty:
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("%w: %q (want console, json or pretty)", ErrUnsupportedFormat, cfg.Format)
	}

	root := glog.NewLogger(options...)
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return &adapter{inner: root}, nil
	}
	return &adapter{inner: root.GetLogger(name)}, nil
}

// NoOp returns a Logger that drops everything.
func NoOp() Logger {
	return noop{}
}

// LevelFor maps the CLI verbosity flags to a level name.
func LevelFor(quiet, verbose bool) string {
	switch {
	case verbose:
		return "debug"
	case quiet:
		return "error"
	default:
		return "warn"
	}
}

type adapter struct {
	inner glog.Logger
}

func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}

func normalizeLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return glog.Trace
	case "debug":
		return glog.Debug
	case "info":
		return glog.Info
	case "warn", "warning":
		return glog.Warn
	case "error":
		return glog.Error
	default:
		return ""
	}
}
