// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policyui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a log record to the model for display in the
// status bar.
type logRecordMsg struct {
	Summary string
	Level   slog.Level
}

// logRecordFadeMsg clears the status bar message. The sequence number
// ties it to the record that scheduled it, so a newer record is not
// cleared early.
type logRecordFadeMsg struct {
	sequence int
}

// logRecordFadeDelay is how long a log message stays in the status bar.
const logRecordFadeDelay = 5 * time.Second

// TUILogHandler is a slog.Handler that routes records into a bubbletea
// program, where they replace the help bar for a few seconds. Writing
// to stderr would corrupt the alternate screen.
//
// Records arriving before SetProgram are dropped. Handlers derived via
// WithAttrs/WithGroup share the program pointer.
type TUILogHandler struct {
	level   slog.Leveler
	program *atomic.Pointer[tea.Program]
	attrs   []slog.Attr
	group   string
}

// NewTUILogHandler creates a handler delivering records at or above
// level.
func NewTUILogHandler(level slog.Leveler) *TUILogHandler {
	return &TUILogHandler{
		level:   level,
		program: &atomic.Pointer[tea.Program]{},
	}
}

// SetProgram sets the program that receives records. Safe to call
// from any goroutine.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.program.Store(program)
}

func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle formats the record as "message (key=value, ...)" and sends
// it to the program.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}
	program.Send(logRecordMsg{Summary: handler.summarize(record), Level: record.Level})
	return nil
}

func (handler *TUILogHandler) summarize(record slog.Record) string {
	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		key := attr.Key
		if handler.group != "" {
			key = handler.group + "." + key
		}
		parts = append(parts, fmt.Sprintf("%s=%s", key, attr.Value))
		return true
	})
	if len(parts) == 0 {
		return record.Message
	}
	return record.Message + " (" + strings.Join(parts, ", ") + ")"
}

func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	prefixed := slices.Clone(attrs)
	if handler.group != "" {
		for index := range prefixed {
			prefixed[index].Key = handler.group + "." + prefixed[index].Key
		}
	}
	derived.attrs = append(slices.Clone(handler.attrs), prefixed...)
	return &derived
}

func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	if handler.group != "" {
		name = handler.group + "." + name
	}
	derived.group = name
	return &derived
}
