package log

import (
	"context"
	"log/slog"
)

// ConsolePrinter routes guest console output into a slog.Logger:
// console.log at INFO, console.warn at WARN, console.error at ERROR.
// It satisfies the goja_nodejs console.Printer interface.
type ConsolePrinter struct {
	logger *slog.Logger
}

// NewConsolePrinter creates a ConsolePrinter. A nil logger uses slog.Default().
func NewConsolePrinter(logger *slog.Logger) *ConsolePrinter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsolePrinter{logger: logger.With(slog.String("source", "console"))}
}

func (p *ConsolePrinter) Log(s string) {
	p.logger.Log(context.Background(), slog.LevelInfo, s)
}

func (p *ConsolePrinter) Warn(s string) {
	p.logger.Log(context.Background(), slog.LevelWarn, s)
}

func (p *ConsolePrinter) Error(s string) {
	p.logger.Log(context.Background(), slog.LevelError, s)
}

// ParseLevel maps debug, info, warn and error to slog levels.
// Unknown names map to INFO.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
