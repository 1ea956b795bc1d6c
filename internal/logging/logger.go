// Package logging provides the leveled, optionally colored logger used by
// every stage of a conversion run.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/backmassage/gltfastc/internal/config"
	"github.com/backmassage/gltfastc/internal/term"
)

type level int

const (
	levelInfo level = iota
	levelSuccess
	levelWarn
	levelError
	levelDebug
)

func (lv level) String() string {
	switch lv {
	case levelSuccess:
		return "SUCCESS"
	case levelWarn:
		return "WARN"
	case levelError:
		return "ERROR"
	case levelDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// color is looked up on every line; term's codes change with Configure.
func (lv level) color() string {
	switch lv {
	case levelSuccess:
		return term.Green
	case levelWarn:
		return term.Yellow
	case levelError:
		return term.Red
	case levelDebug:
		return term.Cyan
	default:
		return term.Blue
	}
}

// Logger writes timestamped "[LEVEL] message" lines to the console and,
// optionally, to an append-only log file. Every level, ERROR included, goes
// to the console writer (stdout by default). All methods are goroutine-safe
// so parallel encodes can share one.
type Logger struct {
	mu   sync.Mutex
	mode config.ColorMode
	out  io.Writer
	file *os.File
}

// NewLogger configures colors for stdout and opens cfg.LogFile when set.
// Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	l := &Logger{mode: cfg.ColorMode, out: os.Stdout}
	term.Configure(l.mode, l.out)

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
	}
	return l, nil
}

// SetOutput redirects console output and re-resolves colors for out.
func (l *Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
	term.Configure(l.mode, out)
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) log(lv level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format("2006-01-02 15:04:05")
	tag := "[" + lv.String() + "]"

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s %s\n", ts, term.Paint(lv.color(), tag), msg)
	if l.file != nil {
		fmt.Fprintf(l.file, "%s %s %s\n", ts, tag, msg)
	}
}

// Info logs progress (blue).
func (l *Logger) Info(format string, args ...interface{}) { l.log(levelInfo, format, args...) }

// Success logs a completed step (green).
func (l *Logger) Success(format string, args ...interface{}) { l.log(levelSuccess, format, args...) }

// Warn logs a recoverable problem (yellow).
func (l *Logger) Warn(format string, args ...interface{}) { l.log(levelWarn, format, args...) }

// Error logs a failure (red).
func (l *Logger) Error(format string, args ...interface{}) { l.log(levelError, format, args...) }

// Debug logs (cyan) only when verbose is set.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if verbose {
		l.log(levelDebug, format, args...)
	}
}
