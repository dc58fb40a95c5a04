// Package logging builds subsystem loggers sharing one slog backend that
// writes to stdout and, optionally, a rotated log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

const (
	defaultMaxLogFiles = 3
	defaultMaxSizeKB   = 10 * 1024
)

// LogConfig configures a LogBackend.
type LogConfig struct {
	// LogFile is the path of the rotated log file. No file is written when
	// empty.
	LogFile string

	// DebugLevel is either a single level applied to every subsystem or a
	// comma separated list such as "info,ROUND=debug,SUSP=trace".
	DebugLevel string

	MaxLogFiles int
	MaxSizeKB   int64

	// NoStdout disables the stdout copy, for terminal UIs.
	NoStdout bool
}

// LogBackend hands out subsystem loggers.
type LogBackend struct {
	mtx     sync.Mutex
	backend *slog.Backend
	rotator *rotator.Rotator
	level   slog.Level
	levels  map[string]slog.Level
	loggers map[string]slog.Logger
}

type logWriter struct {
	stdout  io.Writer
	rotator *rotator.Rotator
}

func (w logWriter) Write(p []byte) (int, error) {
	if w.stdout != nil {
		w.stdout.Write(p)
	}
	if w.rotator != nil {
		w.rotator.Write(p)
	}
	return len(p), nil
}

// NewLogBackend creates the backend and the log file directory.
func NewLogBackend(cfg LogConfig) (*LogBackend, error) {
	level, levels, err := ParseDebugLevel(cfg.DebugLevel)
	if err != nil {
		return nil, err
	}
	if cfg.MaxLogFiles <= 0 {
		cfg.MaxLogFiles = defaultMaxLogFiles
	}
	if cfg.MaxSizeKB <= 0 {
		cfg.MaxSizeKB = defaultMaxSizeKB
	}

	w := logWriter{}
	if !cfg.NoStdout {
		w.stdout = os.Stdout
	}
	lb := &LogBackend{
		level:   level,
		levels:  levels,
		loggers: make(map[string]slog.Logger),
	}
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		r, err := rotator.New(cfg.LogFile, cfg.MaxSizeKB, false, cfg.MaxLogFiles)
		if err != nil {
			return nil, fmt.Errorf("failed to create file rotator: %w", err)
		}
		lb.rotator = r
		w.rotator = r
	}
	lb.backend = slog.NewBackend(w)
	return lb, nil
}

// Logger returns the logger of a subsystem, creating it on first use.
func (lb *LogBackend) Logger(subsystem string) slog.Logger {
	if lb == nil || lb.backend == nil {
		return slog.Disabled
	}
	lb.mtx.Lock()
	defer lb.mtx.Unlock()
	if l, ok := lb.loggers[subsystem]; ok {
		return l
	}
	l := lb.backend.Logger(subsystem)
	if lvl, ok := lb.levels[subsystem]; ok {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(lb.level)
	}
	lb.loggers[subsystem] = l
	return l
}

// SetLevel changes the level of every logger created so far and of those
// created later without an explicit subsystem level.
func (lb *LogBackend) SetLevel(level slog.Level) {
	lb.mtx.Lock()
	defer lb.mtx.Unlock()
	lb.level = level
	for _, l := range lb.loggers {
		l.SetLevel(level)
	}
}

// Close flushes and closes the log file.
func (lb *LogBackend) Close() error {
	if lb == nil || lb.rotator == nil {
		return nil
	}
	return lb.rotator.Close()
}

// ParseDebugLevel parses a DebugLevel string into the default level and the
// per-subsystem overrides.
func ParseDebugLevel(s string) (slog.Level, map[string]slog.Level, error) {
	levels := make(map[string]slog.Level)
	def := slog.LevelInfo
	if strings.TrimSpace(s) == "" {
		return def, levels, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		subsys, lvlStr, found := strings.Cut(part, "=")
		if !found {
			lvl, ok := slog.LevelFromString(part)
			if !ok {
				return 0, nil, fmt.Errorf("invalid debug level %q", part)
			}
			def = lvl
			continue
		}
		lvl, ok := slog.LevelFromString(lvlStr)
		if !ok {
			return 0, nil, fmt.Errorf("invalid debug level %q for subsystem %s", lvlStr, subsys)
		}
		levels[strings.ToUpper(subsys)] = lvl
	}
	return def, levels, nil
}
