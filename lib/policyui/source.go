// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package policyui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/policyview/lib/aclpolicy"
)

// renderDocumentSource renders the document's wire form as YAML lines,
// syntax highlighted for a 256-color terminal. If highlighting fails
// the plain YAML is returned.
func renderDocumentSource(document *aclpolicy.Document) ([]string, error) {
	encoded, err := yaml.Marshal(document.Data())
	if err != nil {
		return nil, err
	}
	source := strings.TrimRight(string(encoded), "\n")

	var buffer strings.Builder
	if err := quick.Highlight(&buffer, source, "yaml", "terminal256", "monokai"); err != nil {
		return strings.Split(source, "\n"), nil
	}
	return strings.Split(strings.TrimRight(buffer.String(), "\n"), "\n"), nil
}
