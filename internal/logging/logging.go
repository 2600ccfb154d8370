// Package logging builds the slog loggers used across finvista.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Field and component names shared by log lines.
const (
	FieldComponent = "component"
	FieldError     = "error"

	ComponentCLI       = "cli"
	ComponentChart     = "chart"
	ComponentImporter  = "importer"
	ComponentBudget    = "budget"
	ComponentFetch     = "fetch"
	ComponentPortfolio = "portfolio"
	ComponentBills     = "bills"
)

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
// An empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithComponent tags every line from the returned logger with a component.
func WithComponent(l *slog.Logger, component string) *slog.Logger {
	return l.With(FieldComponent, component)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
