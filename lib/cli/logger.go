// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger writing to stderr.
// When stderr is a terminal, uses slog.TextHandler for human-readable
// output. When stderr is piped or redirected, uses slog.JSONHandler for
// machine-parseable output.
func NewCommandLogger(level slog.Level) *slog.Logger {
	return slog.New(newStreamHandler(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level))
}

func newStreamHandler(writer io.Writer, terminal bool, level slog.Level) slog.Handler {
	options := &slog.HandlerOptions{Level: level}
	if terminal {
		return slog.NewTextHandler(writer, options)
	}
	return slog.NewJSONHandler(writer, options)
}

// OpenFileLogHandler creates a slog.JSONHandler that writes every
// record at debug level and above to path. The returned function
// closes the file.
func OpenFileLogHandler(path string) (slog.Handler, func() error, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return handler, file.Close, nil
}

// CloseLogFile runs the closer returned by OpenFileLogHandler. A close
// failure is stored in *err unless *err already holds the command's
// own error. Meant to be deferred from a function with a named error
// result.
func CloseLogFile(closer func() error, path string, err *error) {
	closeErr := closer()
	if closeErr != nil && *err == nil {
		*err = Internal("closing log file %s: %w", path, closeErr)
	}
}

// FanoutHandler is a slog.Handler that sends each record to multiple
// underlying handlers. A record is enabled if any sub-handler is
// enabled for that level.
type FanoutHandler []slog.Handler

func (handlers FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every enabled handler. All handlers
// run even when one fails; their errors are joined.
func (handlers FanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (handlers FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(FanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers FanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(FanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
