// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package aclpolicy holds the client-side state of the ACL policy
// listing screen: the uploaded policy documents, the search filter
// over them, paging, and the "are all policies valid" aggregate that
// gates saving.
//
// [Files] is the screen's view model. It owns a reactive collection of
// [Document] values and a [listview.View] over it with one rule, the
// [SearchRule]. Collaborators drive it by writing its reactive inputs
// (Files.Search, Files.View.PagingEnabled, Files.View.Pager
// navigation) and by loading listings with [Files.Load]; renderers
// read Files.Visible, the pager's navigation state and Files.Valid.
//
// Data flow:
//
//	[listing file / server response]
//	        | (ReadListing, Watcher)
//	    [Files.Load] -> Policies -> SearchRule -> Pager -> Visible
//	        |
//	  [renderer]
package aclpolicy
