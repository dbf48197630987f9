// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the command-line plumbing shared by the viewer's
// entry point: categorized errors with operator hints, exit codes that
// bypass error printing, and slog handler construction.
//
// Errors returned from a command's run function are classified with
// [Validation], [NotFound] or [Internal]. A [ToolError] may carry a
// hint that is printed after the message. An error implementing
// ExitCode() int (see [ExitError]) makes main exit with that code and
// print nothing further.
package cli
