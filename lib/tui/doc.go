// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface pieces for the
// policy viewer: the color theme, change highlighting for reloaded
// items, and the list scrollbar. Built on lipgloss; the bubbletea
// program and its layout live in lib/policyui.
package tui
