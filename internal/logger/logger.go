// Package logger builds the process-wide *slog.Logger: stderr plus an
// optional file, fanned out with slog-multi.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

type Config struct {
	debug  bool
	format string
	writer io.Writer
	quiet  bool
	stderr io.Writer
}

type Option func(*Config)

// WithDebug sets the level of the logger to debug.
func WithDebug() Option {
	return func(o *Config) {
		o.debug = true
	}
}

// WithFormat sets the format of the logger (text or json).
func WithFormat(format string) Option {
	return func(o *Config) {
		o.format = format
	}
}

// WithWriter adds a second destination, usually a log file.
func WithWriter(w io.Writer) Option {
	return func(o *Config) {
		o.writer = w
	}
}

// WithQuiet suppresses output to stderr.
func WithQuiet() Option {
	return func(o *Config) {
		o.quiet = true
	}
}

func withStderr(w io.Writer) Option {
	return func(o *Config) {
		o.stderr = w
	}
}

func New(opts ...Option) *slog.Logger {
	cfg := &Config{stderr: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}

	level := slog.LevelInfo
	if cfg.debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.debug,
	}

	var handlers []slog.Handler
	if !cfg.quiet {
		handlers = append(handlers, newHandler(cfg.stderr, cfg.format, handlerOpts))
	}
	if cfg.writer != nil {
		handlers = append(handlers, &guardedHandler{handler: newHandler(cfg.writer, cfg.format, handlerOpts)})
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// Discard drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ slog.Handler = (*guardedHandler)(nil)

// guardedHandler serialises writes to a shared file so lines from the game
// loop and audio goroutines do not interleave.
type guardedHandler struct {
	handler slog.Handler
	mu      sync.Mutex
}

func (s *guardedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.handler.Enabled(ctx, level)
}

func (s *guardedHandler) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler.Handle(ctx, record)
}

func (s *guardedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &guardedHandler{handler: s.handler.WithAttrs(attrs)}
}

func (s *guardedHandler) WithGroup(name string) slog.Handler {
	return &guardedHandler{handler: s.handler.WithGroup(name)}
}

func newHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
