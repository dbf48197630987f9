// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package policyui renders an [aclpolicy.Files] view model as an
// interactive terminal screen and as plain text.
//
// [Model] is a bubbletea model. It subscribes to the view model and
// re-anchors its cursor whenever the visible documents change, whether
// through a keystroke (search, paging) or a [ReloadMsg] carrying a
// watcher update. Search keystrokes are written straight into
// Files.Search; filtering, paging and validity follow reactively.
//
// [TUILogHandler] routes slog records into the help bar while the
// program owns the terminal.
package policyui
