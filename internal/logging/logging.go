// Package logging provisions the process-wide named loggers for the
// pipeline. Loggers are configured once, from a YAML file named by the
// LOGGING_CONFIG_PATH environment variable, and handed out by name; when
// the file is missing or malformed a basic warn-level configuration is
// used instead.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "LOGGING_CONFIG_PATH"

// Logger names handed out by the accessors below.
const (
	PipelineLoggerName = "data_pipeline"
	BronzeLoggerName   = "data_pipeline_bronze"
	SilverLoggerName   = "data_pipeline_silver"
	GoldLoggerName     = "data_pipeline_gold"
)

// Config is the YAML logging configuration.
type Config struct {
	// Level is the default level for loggers without their own ("debug",
	// "info", "warn", "error").
	Level string `yaml:"level"`
	// Format selects the handler: "text" (default) or "json".
	Format string `yaml:"format"`
	// Loggers overrides level and output file per logger name.
	Loggers map[string]LoggerConfig `yaml:"loggers"`
}

// LoggerConfig is the per-logger section of the YAML configuration.
type LoggerConfig struct {
	Level string `yaml:"level"`
	// File is a log file path, relative to the working directory. Parent
	// directories are created on demand. Empty means stderr.
	File string `yaml:"file"`
}

var (
	mu         sync.Mutex
	configured bool
	active     Config
	loggers    = map[string]*slog.Logger{}
)

// Setup configures logging from the YAML file at path. It runs at most
// once per process; later calls (and lazy configuration through Get) are
// no-ops. An empty path falls back to LOGGING_CONFIG_PATH.
func Setup(path string) {
	mu.Lock()
	defer mu.Unlock()
	setupLocked(path)
}

func setupLocked(path string) {
	if configured {
		return
	}
	configured = true

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		active = fallbackConfig()
		basicWarn("logging configuration path not set, using basic configuration")
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		active = fallbackConfig()
		basicWarn("logging configuration file not found, using basic configuration", "path", path, "error", err)
		return
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		active = fallbackConfig()
		basicWarn("malformed logging configuration, using basic configuration", "path", path, "error", err)
		return
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	active = cfg
}

func fallbackConfig() Config {
	return Config{Level: "warn", Format: "text"}
}

// basicWarn reports a configuration problem through a plain stderr handler.
func basicWarn(msg string, args ...any) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})
	slog.New(h).Warn(msg, args...)
}

// Get returns the named logger, configuring logging on first use. Loggers
// are built once and shared for the life of the process.
func Get(name string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !configured {
		setupLocked("")
	}
	if l, ok := loggers[name]; ok {
		return l
	}
	l := build(name)
	loggers[name] = l
	return l
}

func build(name string) *slog.Logger {
	level := active.Level
	var file string
	if lc, ok := active.Loggers[name]; ok {
		if lc.Level != "" {
			level = lc.Level
		}
		file = lc.File
	}

	var w io.Writer = os.Stderr
	if file != "" {
		if f, err := openLogFile(file); err != nil {
			basicWarn("cannot open log file, logging to stderr", "file", file, "error", err)
		} else {
			w = f
		}
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(active.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h).With("logger", name)
}

// openLogFile opens a log file for appending, creating parent directories
// as needed. The file stays open for the life of the process.
func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Pipeline returns the logger for data pipeline tasks.
func Pipeline() *slog.Logger {
	return Get(PipelineLoggerName)
}

// Bronze returns the logger for the raw-ingestion stage.
func Bronze() *slog.Logger {
	return Get(BronzeLoggerName)
}

// Silver returns the logger for the transform stage.
func Silver() *slog.Logger {
	return Get(SilverLoggerName)
}

// Gold returns the logger for the serving stage.
func Gold() *slog.Logger {
	return Get(GoldLoggerName)
}

// reset clears the logger registry. Tests only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	configured = false
	active = Config{}
	loggers = map[string]*slog.Logger{}
}
