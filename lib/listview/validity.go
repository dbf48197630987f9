// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import "github.com/bureau-foundation/policyview/lib/reactive"

// NewAllValid derives whether every item in content is valid. An
// empty collection is valid. The check stops at the first invalid
// item, so only the flags up to that item are dependencies; flags
// after it cannot change the answer until it is fixed.
func NewAllValid[T any](content Content[T], valid func(scope *reactive.Scope, item T) bool) *reactive.Computed[bool] {
	return reactive.NewComputed(func(scope *reactive.Scope) bool {
		for _, item := range content.Read(scope) {
			if !valid(scope, item) {
				return false
			}
		}
		return true
	})
}
