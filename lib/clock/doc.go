// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// The policy screen reads the time to fade reload highlights and
// status messages; tests use [Fake] to step past those durations
// without sleeping.
package clock
