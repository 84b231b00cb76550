// Package schemas embeds the JSON Schemas used to validate structured LLM output.
package schemas

import _ "embed"

// AdvisoryResponse is the JSON Schema for the advisory call's response envelope.
//
//go:embed advisory_response.schema.json
var AdvisoryResponse string
