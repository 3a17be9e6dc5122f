// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys used on wpconf spans.
const (
	ReloadIDKey      = "reload.id"
	ReloadResultKey  = "reload.result"
	ReloadChangedKey = "reload.changed"
	ReloadRestartKey = "reload.restart_required"

	SettingsPathKey   = "settings.path"
	SettingsFormatKey = "settings.format"
)

// ReloadAttributes describes the outcome of one settings reload.
func ReloadAttributes(reloadID, result string, changed []string, restartRequired bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ReloadIDKey, reloadID),
		attribute.String(ReloadResultKey, result),
		attribute.StringSlice(ReloadChangedKey, changed),
		attribute.Bool(ReloadRestartKey, restartRequired),
	}
}

// SettingsSourceAttributes describes the settings file being read.
func SettingsSourceAttributes(path, format string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(SettingsPathKey, path),
		attribute.String(SettingsFormatKey, format),
	}
}
