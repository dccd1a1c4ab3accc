// Package log provides logging utilities.
package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(d time.Duration) slog.Value {
		return slog.StringValue(d.String())
	}),
)

// NewLogger creates a console logger writing to stdout with the given level.
func NewLogger(lvl slog.Level) *slog.Logger {
	return slog.New(newHandler(
		console.NewHandler(os.Stdout, &console.HandlerOptions{
			AddSource:  true,
			Level:      lvl,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}

// NewDevLogger creates a developer logger with pretty-printed values.
func NewDevLogger(lvl slog.Level) *slog.Logger {
	return slog.New(newHandler(
		devslog.NewHandler(os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     lvl,
			},
			SortKeys:   true,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}

var defLog atomic.Pointer[slog.Logger]

func init() {
	defLog.Store(NewLogger(slog.LevelInfo))
}

// Default returns the module-wide default logger.
func Default() *slog.Logger { return defLog.Load() }

// SetDefault replaces the module-wide default logger.
// Nil resets it to the console logger.
func SetDefault(l *slog.Logger) {
	if l == nil {
		l = NewLogger(slog.LevelInfo)
	}
	defLog.Store(l)
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

var noopLog = slog.New(noopHandler{})

// Noop returns a logger that discards everything.
func Noop() *slog.Logger { return noopLog }
