// Package log provides the bridge's diagnostic channel: a slog handler that
// writes severity-tagged lines, and a printer routing guest console output
// into slog.
package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
)

// Handler implements slog.Handler writing one line per record:
//
//	[ERROR] Could not import alpha error="Cannot find module 'alpha'"
type Handler struct {
	opts   handlerConfig
	mu     *sync.Mutex
	prefix string // pre-encoded attributes from WithAttrs
	groups []string
}

// HandlerOption configures the Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	w         io.Writer
	level     slog.Leveler
	addSource bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		w:     os.Stderr,
		level: slog.LevelInfo,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		if level != nil {
			c.level = level
		}
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithWriter sets the destination. Defaults to os.Stderr.
func WithWriter(w io.Writer) HandlerOption {
	return func(c *handlerConfig) {
		if w != nil {
			c.w = w
		}
	}
}

// NewHandler creates a new Handler with the given options.
func NewHandler(opts ...HandlerOption) *Handler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Handler{opts: cfg, mu: &sync.Mutex{}}
}

// New returns a logger backed by a Handler.
func New(opts ...HandlerOption) *slog.Logger {
	return slog.New(NewHandler(opts...))
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

// Handle formats and writes the record.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	buf.WriteString(record.Level.String())
	buf.WriteString("] ")
	buf.WriteString(record.Message)
	buf.WriteString(h.prefix)

	record.Attrs(func(a slog.Attr) bool {
		appendAttr(&buf, h.groups, a)
		return true
	})

	if h.opts.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := frames.Next()
		buf.WriteString(" source=")
		buf.WriteString(filepath.Base(f.File))
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(f.Line))
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.opts.w.Write(buf.Bytes())
	return err
}

// WithAttrs returns a new Handler that includes the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.WriteString(h.prefix)
	for _, a := range attrs {
		appendAttr(&buf, h.groups, a)
	}
	clone := *h
	clone.prefix = buf.String()
	return &clone
}

// WithGroup returns a new Handler qualifying later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}
