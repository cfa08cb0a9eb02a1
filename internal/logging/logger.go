// Package logging provides slog loggers tagged with the module that owns them.
//
// Initialize once at startup, then take a logger per package:
//
//	logging.Initialize(logging.Config{Level: "debug", Format: "text"})
//	logger := logging.GetLogger("planner")
//	logger.Warn("source is progressive", "target", name)
//
// Logs go to stderr so they never mix with report or dry-run output on stdout.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Config represents logging configuration.
type Config struct {
	Level   string            `yaml:"level" toml:"level"`
	Format  string            `yaml:"format" toml:"format"`
	Modules map[string]string `yaml:"modules,omitempty" toml:"modules,omitempty"`
}

var mutex sync.RWMutex

var (
	globalConfig  = Config{Level: "info", Format: "text"}
	output        = io.Writer(os.Stderr)
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevels  = make(map[string]*slog.LevelVar)
)

// Initialize applies config to the default logger and to every module
// logger handed out so far.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig = config
	for module, levelVar := range moduleLevels {
		levelVar.Set(levelFor(module))
		moduleLoggers[module] = slog.New(newHandler(config.Format, levelVar)).With("module", module)
	}

	global := &slog.LevelVar{}
	global.Set(parseLevel(config.Level, slog.LevelInfo))
	slog.SetDefault(slog.New(newHandler(config.Format, global)))
}

// SetOutput redirects all loggers created or re-created afterwards.
func SetOutput(w io.Writer) {
	mutex.Lock()
	output = w
	mutex.Unlock()
}

// GetLogger returns the logger for module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	logger, ok := moduleLoggers[module]
	mutex.RUnlock()
	if ok {
		return logger
	}

	mutex.Lock()
	defer mutex.Unlock()
	if logger, ok := moduleLoggers[module]; ok {
		return logger
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(levelFor(module))
	logger = slog.New(newHandler(globalConfig.Format, levelVar)).With("module", module)
	moduleLoggers[module] = logger
	moduleLevels[module] = levelVar
	return logger
}

// levelFor resolves the module override, then the global level.
// Callers hold mutex.
func levelFor(module string) slog.Level {
	level := parseLevel(globalConfig.Level, slog.LevelInfo)
	if override, ok := globalConfig.Modules[module]; ok {
		level = parseLevel(override, level)
	}
	return level
}

func newHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(output, opts)
	}
	return slog.NewTextHandler(output, opts)
}

// parseLevel converts a level name, falling back to def for unknown names.
func parseLevel(level string, def slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

// ValidLevel reports whether level is a recognised level name.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
