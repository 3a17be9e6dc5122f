// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldReloadID  = "reload_id"

	// Event fields
	FieldEvent = "event"

	// Settings fields
	FieldKey    = "key"
	FieldSource = "source"
	FieldPath   = "path"
	FieldFormat = "format"
)
