// Package schemas embeds the JSON Schemas for catalog records and persisted reports.
package schemas

import (
	_ "embed"
)

// Suggestion validates one catalog record.
//
//go:embed suggestion.schema.json
var Suggestion string

// Report validates the persisted JSON report.
//
//go:embed report.schema.json
var Report string
