// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads the site settings of a content-management deployment.
//
// Settings are merged once, in a fixed order (defaults, settings file,
// environment), validated, and handed out as an immutable value. A key that is
// defined twice in one source, or set through both its canonical and legacy
// environment name with different values, is a load error.
package config
